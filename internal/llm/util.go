package llm

import (
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("```json\\n?|\\n?```")

// StripCodeFences removes markdown code fence markers anywhere in text and trims the result.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func StripCodeFences(text string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(text, ""))
}
