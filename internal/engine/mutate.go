package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ragassist/internal/domain"
	"ragassist/internal/extract"
)

// AddDocument extracts text from an uploaded document, chunks it, and
// appends the document and its passages to the corpus, rebuilding both
// indexes before returning. The duplicate-filename check runs before
// extraction is attempted. Returns the number of chunks added.
func (e *Engine) AddDocument(ctx context.Context, filename string, data []byte) (int, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return 0, fmt.Errorf("add document: empty filename")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return 0, ErrNotInitialized
	}
	for _, d := range e.documents {
		if d.Filename == filename {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateDocument, filename)
		}
	}

	text, err := e.extractor.Extract(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrEmptyExtraction, filename, err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: %s", ErrEmptyExtraction, filename)
	}

	passages := e.document.Split(text)
	if len(passages) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoChunks, filename)
	}

	uploadTime := time.Now()
	sourceType := extract.SourceType(data)
	doc := domain.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		UploadTime: uploadTime,
		RawText:    text,
		ChunkCount: len(passages),
	}

	prevChunks, prevDocs := e.chunks, e.documents
	chunks := make([]domain.Chunk, 0, len(e.chunks)+len(passages))
	chunks = append(chunks, e.chunks...)
	for i, p := range passages {
		chunks = append(chunks, domain.Chunk{
			Text: p,
			Meta: domain.DocumentMetadata(sourceType, filename, i, uploadTime),
		})
	}
	e.chunks = chunks
	e.documents = append(append([]domain.Document(nil), e.documents...), doc)

	if err := e.rebuildLocked(ctx); err != nil {
		e.chunks, e.documents = prevChunks, prevDocs
		return 0, err
	}

	e.logger.Info("document added",
		zap.String("filename", filename),
		zap.String("source_type", sourceType),
		zap.Int("chunks", len(passages)))
	return len(passages), nil
}

// RemoveDocument deletes the document record and every chunk tagged
// with its filename, then rebuilds both indexes over what remains.
func (e *Engine) RemoveDocument(ctx context.Context, filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return ErrNotInitialized
	}

	found := false
	docs := make([]domain.Document, 0, len(e.documents))
	for _, d := range e.documents {
		if d.Filename == filename {
			found = true
			continue
		}
		docs = append(docs, d)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, filename)
	}

	chunks := make([]domain.Chunk, 0, len(e.chunks))
	for _, c := range e.chunks {
		if c.Meta.Kind == domain.MetadataDocument && c.Meta.Filename == filename {
			continue
		}
		chunks = append(chunks, c)
	}

	prevChunks, prevDocs := e.chunks, e.documents
	e.chunks, e.documents = chunks, docs

	if err := e.rebuildLocked(ctx); err != nil {
		e.chunks, e.documents = prevChunks, prevDocs
		return err
	}

	e.logger.Info("document removed",
		zap.String("filename", filename),
		zap.Int("remaining_chunks", len(chunks)))
	return nil
}
