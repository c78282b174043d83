package anthropic

import (
	"slices"
	"strings"
)

// Known values for the anthropic-beta header. Any other string may be passed
// through MessagesRequest.Betas.
const (
	// BetaInterleavedThinking enables interleaved thinking blocks in responses.
	BetaInterleavedThinking = "interleaved-thinking-2025-05-14"

	// BetaToolExamples enables the input_examples field on tool definitions.
	BetaToolExamples = "tool-examples-2025-10-29"

	// BetaWebFetch enables dynamic web fetch filtering.
	BetaWebFetch = "web-fetch-2026-02-09"

	// BetaContextCompaction enables server-side context compaction.
	BetaContextCompaction = "context-compaction-2026-02-14"
)

// betaHeaderValue returns the comma-joined anthropic-beta header value, adding
// the interleaved thinking beta when thinking is on. Duplicates are dropped.
func betaHeaderValue(betas []string, thinking bool) string {
	features := make([]string, 0, len(betas)+1)
	for _, b := range betas {
		if b != "" && !slices.Contains(features, b) {
			features = append(features, b)
		}
	}
	if thinking && !slices.Contains(features, BetaInterleavedThinking) {
		features = append(features, BetaInterleavedThinking)
	}
	return strings.Join(features, ",")
}
