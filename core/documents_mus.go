package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the document cache wire format.
// Hand-written: the cache persists a single flat struct, so a generator
// would be more machinery than the serializers themselves.
var (
	IDMUS       = idMUS{}
	DocumentMUS = documentMUS{}
)

var (
	_ mus.Serializer[ID]       = IDMUS
	_ mus.Serializer[Document] = DocumentMUS
)

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (s idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type documentMUS struct{}

func (s documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = IDMUS.Marshal(d.Id, bs)
	n += ord.String.Marshal(d.Content, bs[n:])
	n += ord.String.Marshal(d.Name, bs[n:])
	n += ord.String.Marshal(d.Summary, bs[n:])
	n += ord.String.Marshal(d.URL, bs[n:])
	n += ord.String.Marshal(d.Category, bs[n:])
	n += ord.String.Marshal(d.UpdatedAt, bs[n:])
	n += varint.Int64.Marshal(d.FetchedAt.UnixMicro(), bs[n:])
	return n
}

func (s documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	d.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	d.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.UpdatedAt, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.FetchedAt = time.UnixMicro(micros).UTC()
	return
}

func (s documentMUS) Size(d Document) (size int) {
	size = IDMUS.Size(d.Id)
	size += ord.String.Size(d.Content)
	size += ord.String.Size(d.Name)
	size += ord.String.Size(d.Summary)
	size += ord.String.Size(d.URL)
	size += ord.String.Size(d.Category)
	size += ord.String.Size(d.UpdatedAt)
	size += varint.Int64.Size(d.FetchedAt.UnixMicro())
	return size
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 6; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
