package domain

import "time"

// MetadataKind discriminates the two shapes of chunk metadata.
type MetadataKind string

const (
	// MetadataBasic marks chunks produced from the seed knowledge set.
	MetadataBasic MetadataKind = "basic"
	// MetadataDocument marks chunks produced from an uploaded document.
	MetadataDocument MetadataKind = "document"
)

// ChunkMetadata is a tagged union: exactly one of the two field groups
// is meaningful, selected by Kind.
type ChunkMetadata struct {
	Kind MetadataKind

	// Basic fields (Kind == MetadataBasic).
	SourceIndex int
	UserMessage string
	Response    string

	// Document fields (Kind == MetadataDocument).
	SourceType string
	Filename   string
	ChunkIndex int
	UploadTime time.Time
}

// BasicMetadata builds metadata for a chunk of a seed knowledge entry.
func BasicMetadata(sourceIndex int, userMessage, response string) ChunkMetadata {
	return ChunkMetadata{
		Kind:        MetadataBasic,
		SourceIndex: sourceIndex,
		UserMessage: userMessage,
		Response:    response,
	}
}

// DocumentMetadata builds metadata for a chunk of an uploaded document.
func DocumentMetadata(sourceType, filename string, chunkIndex int, uploadTime time.Time) ChunkMetadata {
	return ChunkMetadata{
		Kind:       MetadataDocument,
		SourceType: sourceType,
		Filename:   filename,
		ChunkIndex: chunkIndex,
		UploadTime: uploadTime,
	}
}

// Chunk is a bounded-size passage of text, the unit of indexing and
// retrieval. A chunk is immutable once created; corpus mutations replace
// chunks wholesale and rebuild both indexes.
type Chunk struct {
	Text string
	Meta ChunkMetadata
}

// Document records an uploaded document. Filename is the uniqueness key;
// deleting a document cascades to every chunk tagged with its filename.
type Document struct {
	ID         string
	Filename   string
	UploadTime time.Time
	RawText    string
	ChunkCount int
}

// SearchResult is a matching chunk with its relevance score and its
// stable position in the corpus.
type SearchResult struct {
	Index int
	Chunk Chunk
	Score float64
}

// SourceDoc is a retrieved chunk as reported alongside a generated
// answer.
type SourceDoc struct {
	Chunk Chunk
	Score float64
}

// CorpusSummary describes the current corpus for presentation layers.
type CorpusSummary struct {
	TotalDocuments      int
	TotalDocumentChunks int
}
