// Package badger implements the document cache repositories on BadgerDB.
//
// Documents are stored under content-hash keys with a secondary name index,
// serialized in the MUS format. The backend supports an in-memory mode used
// by tests.
package badger
