package chunker

import "strings"

const (
	basicTargetSize    = 300
	documentTargetSize = 500
	documentOverlap    = 50

	sentenceSeparator = ". "
)

// Splitter splits raw text into bounded-size passages on sentence
// boundaries. Passages are capped near targetSize characters; when
// overlap is non-zero, each passage after the first is seeded with
// trailing sentences of its predecessor up to the overlap character
// budget. The overlap is a continuity aid, not an exact guarantee:
// whole sentences are carried over, so adjacent passages share roughly,
// never exactly, that many characters.
type Splitter struct {
	targetSize int
	overlap    int
}

// NewBasicSplitter returns the splitter used for seed knowledge
// entries: 300-character passages, no overlap.
func NewBasicSplitter() *Splitter {
	return NewSplitter(basicTargetSize, 0)
}

// NewDocumentSplitter returns the splitter used for uploaded documents:
// 500-character passages with a 50-character overlap budget.
func NewDocumentSplitter() *Splitter {
	return NewSplitter(documentTargetSize, documentOverlap)
}

// NewSplitter creates a splitter with an explicit target size and
// overlap budget.
func NewSplitter(targetSize, overlap int) *Splitter {
	if targetSize <= 0 {
		targetSize = basicTargetSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Splitter{targetSize: targetSize, overlap: overlap}
}

// Split breaks text into ordered passages. Empty or whitespace-only
// input yields no passages; text without sentence separators yields a
// single passage. Identical input always yields the identical sequence.
func (s *Splitter) Split(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var passages []string
	var buf []string
	bufLen := 0
	seeded := 0

	for _, sentence := range sentences {
		if bufLen > 0 && bufLen+len(sentenceSeparator)+len(sentence) > s.targetSize {
			if len(buf) > seeded {
				passages = append(passages, strings.Join(buf, sentenceSeparator))
				buf, bufLen = s.seedOverlap(buf)
				seeded = len(buf)
			} else {
				// Seed-only buffer: drop it rather than emit a
				// passage that duplicates the previous tail.
				buf, bufLen, seeded = nil, 0, 0
			}
		}
		buf = append(buf, sentence)
		if bufLen > 0 {
			bufLen += len(sentenceSeparator)
		}
		bufLen += len(sentence)
	}
	if len(buf) > seeded {
		passages = append(passages, strings.Join(buf, sentenceSeparator))
	}
	return passages
}

// seedOverlap picks trailing sentences of a flushed buffer that fit the
// overlap character budget, to start the next buffer from.
func (s *Splitter) seedOverlap(flushed []string) ([]string, int) {
	if s.overlap <= 0 {
		return nil, 0
	}
	total := 0
	start := len(flushed)
	for i := len(flushed) - 1; i >= 0; i-- {
		need := len(flushed[i])
		if total > 0 {
			need += len(sentenceSeparator)
		}
		if total+need > s.overlap {
			break
		}
		total += need
		start = i
	}
	if start == len(flushed) {
		return nil, 0
	}
	seed := make([]string, len(flushed)-start)
	copy(seed, flushed[start:])
	return seed, total
}

func splitSentences(text string) []string {
	parts := strings.Split(text, sentenceSeparator)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
