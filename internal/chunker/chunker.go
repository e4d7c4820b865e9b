// Package chunker splits note text into bounded, ordered segments for
// embedding. Boundaries prefer paragraphs, then sentences, then words;
// a hard cut happens only when a single word exceeds the budget, and
// never inside a rune.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the default segment budget in runes.
const DefaultMaxChars = 1000

// Split segments text into non-overlapping pieces of at most maxChars
// runes. Identical input always yields identical boundaries. Empty or
// whitespace-only input yields no segments.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var segments []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			segments = append(segments, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, para := range splitParagraphs(text) {
		pLen := utf8.RuneCountInString(para)
		if currentLen > 0 && currentLen+2+pLen > maxChars {
			flush()
		}
		if pLen <= maxChars {
			if currentLen > 0 {
				current.WriteString("\n\n")
				currentLen += 2
			}
			current.WriteString(para)
			currentLen += pLen
			continue
		}
		// Paragraph alone exceeds the budget: break it down.
		flush()
		for _, piece := range splitOversized(para, maxChars) {
			segments = append(segments, piece)
		}
	}
	flush()

	return segments
}

// splitParagraphs splits on blank lines, dropping empty paragraphs.
func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitOversized packs the sentences of one oversized paragraph into
// budget-sized pieces, splitting single oversized sentences by words.
func splitOversized(para string, maxChars int) []string {
	var pieces []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			pieces = append(pieces, s)
		}
		current.Reset()
		currentLen = 0
	}

	appendUnit := func(unit string) {
		uLen := utf8.RuneCountInString(unit)
		if currentLen > 0 && currentLen+1+uLen > maxChars {
			flush()
		}
		if uLen <= maxChars {
			if currentLen > 0 {
				current.WriteByte(' ')
				currentLen++
			}
			current.WriteString(unit)
			currentLen += uLen
			return
		}
		// A single word longer than the budget: hard rune cut.
		flush()
		pieces = append(pieces, hardCut(unit, maxChars)...)
	}

	for _, sentence := range splitSentences(para) {
		if utf8.RuneCountInString(sentence) <= maxChars {
			appendUnit(sentence)
			continue
		}
		for _, word := range strings.Fields(sentence) {
			appendUnit(word)
		}
	}
	flush()

	return pieces
}

// splitSentences splits on sentence terminators and line breaks.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// hardCut slices text into maxChars-rune pieces on rune boundaries.
func hardCut(text string, maxChars int) []string {
	var pieces []string
	runes := []rune(text)
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
