// Package storage defines the local document cache used between fetching and
// indexing.
//
// Repositories are defined as interfaces here, with a BadgerDB implementation
// in storage/badger. Records are serialized with the MUS format serializers
// defined alongside the core types.
package storage
