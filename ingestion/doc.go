// Package ingestion turns source documents into indexed vector store points.
//
// The Loader reads a JSON document set from a file or URL, validating each
// record individually so one malformed document never sinks the batch. The
// Pipeline splits documents into token windows, embeds the windows on a
// worker pool, and upserts the resulting points, reporting per-document
// failures instead of aborting the run.
package ingestion
