package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ragassist/internal/domain"
)

// Fixed answers for the two non-failure short circuits. They are
// results, not errors: the caller asked a question and gets a reply.
const (
	NotInitializedAnswer = "The assistant is not initialized yet. Load the knowledge base first."
	NoInformationAnswer  = "No relevant information was found for this question."
)

const truncationMarker = "..."

const promptTemplate = `Reference information:
%s

Question: %s

Answer:`

// Answer is a generated reply together with the ranked passages it was
// grounded on.
type Answer struct {
	Text    string
	Sources []domain.SourceDoc
}

// Answer retrieves passages for the query, assembles a bounded context,
// and delegates synthesis to the generation service. Failures of the
// generation call come back as errors wrapping ErrGeneration, with the
// retrieved sources still attached so callers can render them.
func (e *Engine) Answer(ctx context.Context, query string, method Method) (Answer, error) {
	_, _, initialized := e.currentSnapshot()
	if !initialized {
		return Answer{Text: NotInitializedAnswer}, nil
	}

	results, err := e.Retrieve(ctx, query, method, e.opts.TopK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve: %w", err)
	}
	if len(results) == 0 {
		return Answer{Text: NoInformationAnswer}, nil
	}

	sources := make([]domain.SourceDoc, len(results))
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = "- " + r.Chunk.Text
		sources[i] = domain.SourceDoc{Chunk: r.Chunk, Score: r.Score}
	}
	contextText, truncated := truncate(strings.Join(lines, "\n"), e.opts.ContextBudget)
	if truncated {
		e.logger.Debug("context truncated", zap.Int("budget", e.opts.ContextBudget))
	}

	prompt := fmt.Sprintf(promptTemplate, contextText, query)
	text, err := e.generator.Complete(ctx, prompt)
	if err != nil {
		return Answer{Sources: sources}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return Answer{Text: text, Sources: sources}, nil
}

// truncate cuts s to at most budget characters, appending the marker
// when anything was cut. The budget counts characters, not tokens, and
// may fall mid-sentence.
func truncate(s string, budget int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= budget {
		return s, false
	}
	return string(runes[:budget]) + truncationMarker, true
}
