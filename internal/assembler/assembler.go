package assembler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"turbobot/internal/domain"
)

// EmptyContextMarker is returned instead of an empty string when there are no
// results, so the prompt builder can omit the knowledge section outright
// rather than inject a blank block that reads like manual content.
const EmptyContextMarker = "[NO RELEVANT CONTEXT]"

const divider = "------------------------------------------------------------"

// Assemble concatenates result texts in the order given, each annotated with
// its source path, keeping the running total within maxChars. Only the last
// included chunk is ever truncated; chunks before it are emitted whole.
func Assemble(results []domain.Result, maxChars int) string {
	if len(results) == 0 {
		return EmptyContextMarker
	}
	var b strings.Builder
	for i, r := range results {
		entry := fmt.Sprintf("[Source %d: %s] (relevance %.2f)\n%s\n%s\n", i+1, r.SourcePath, r.Score, r.Text, divider)
		if maxChars <= 0 {
			b.WriteString(entry)
			continue
		}
		remaining := maxChars - b.Len()
		if remaining <= 0 {
			break
		}
		if len(entry) > remaining {
			b.WriteString(truncateToRune(entry, remaining))
			break
		}
		b.WriteString(entry)
	}
	return b.String()
}

// truncateToRune cuts s to at most limit bytes without splitting a rune.
func truncateToRune(s string, limit int) string {
	if limit >= len(s) {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
