// Package qdrant implements store.VectorStore against the Qdrant REST API.
//
// The client covers exactly the three operations the pipelines need:
// collection creation, waited point upserts, and payload-carrying similarity
// search. Point IDs are the module's content-hash IDs, sent as unsigned
// integers.
package qdrant
