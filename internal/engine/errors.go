package engine

import "errors"

var (
	// ErrNoSeedData aborts initialization when the seed knowledge set
	// is missing or empty.
	ErrNoSeedData = errors.New("no seed knowledge data")

	// ErrNotInitialized is returned by mutations attempted before
	// Initialize has built the corpus.
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrEmptyExtraction marks a document whose extracted text was
	// empty or whitespace-only.
	ErrEmptyExtraction = errors.New("document extraction produced no text")

	// ErrNoChunks marks non-empty text that produced zero passages.
	ErrNoChunks = errors.New("chunking produced no passages")

	// ErrDuplicateDocument rejects re-adding a filename that is
	// already in the corpus.
	ErrDuplicateDocument = errors.New("document already exists")

	// ErrDocumentNotFound rejects removal of an unknown filename.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrGeneration wraps failures of the external generation service.
	ErrGeneration = errors.New("generation failed")
)
