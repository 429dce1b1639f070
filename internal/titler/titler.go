// Package titler derives human-readable note titles from note content.
//
// Titles come from either a remote text-generation service (OpenRouter) or
// the deterministic Simple rule. The remote path is always treated as
// fallible: callers fall back to Simple on any error, so a title is always
// available.
package titler

import (
	"context"
	"strings"
)

// Generator produces a short title for note content. Implementations may
// take seconds and must honor ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, content string) (string, error)
}

// Simple derives a title from content without any external calls.
//
// Rules, in order:
//  1. Q&A content ("Q: ...\n\nA: ...") titles as the question, truncated
//     to 47 chars + "..." when over 50.
//  2. A non-empty first line of at most 60 chars is used as-is, unless it
//     itself starts with "Q:".
//  3. Short content (≤ 50 chars) is used verbatim; longer content is cut
//     at 50 chars, backing up to the last word boundary when that boundary
//     is past char 30, with "..." appended.
func Simple(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "Q:") {
		if end := strings.Index(content, "\n\nA:"); end >= 0 {
			question := strings.TrimSpace(content[2:end])
			if len(question) <= 50 {
				return question
			}
			return question[:47] + "..."
		}
	}

	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}
	firstLine = strings.TrimSpace(firstLine)
	if firstLine != "" && len(firstLine) <= 60 && !strings.HasPrefix(firstLine, "Q:") {
		return firstLine
	}

	if len(content) <= 50 {
		return content
	}
	truncated := content[:50]
	if lastSpace := strings.LastIndexByte(truncated, ' '); lastSpace > 30 {
		return truncated[:lastSpace] + "..."
	}
	return truncated + "..."
}
