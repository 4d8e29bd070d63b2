package generation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Levilaell/script-post-ai/internal/models"
)

var (
	ideaPattern   = regexp.MustCompile(`(?s)Idea:\s*(.+?)\nDescription:\s*(.+)`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// DefaultNumericLead is used when a title carries no leading number.
const DefaultNumericLead = 5

// ParseIdea extracts an idea/description pair from a completion formatted as
//
//	Idea: <headline>
//	Description: <text>
//
// It returns false when the format does not match or the description falls
// below minWords.
func ParseIdea(text string, minWords int) (models.Idea, bool) {
	match := ideaPattern.FindStringSubmatch(text)
	if match == nil {
		return models.Idea{}, false
	}

	headline := strings.TrimSpace(match[1])
	description := strings.TrimSpace(match[2])
	if headline == "" || description == "" || WordCount(description) < minWords {
		return models.Idea{}, false
	}

	return models.Idea{Headline: headline, Description: description}, true
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ExtractNumericLead returns the first number found in the title, or
// DefaultNumericLead when the title carries none.
func ExtractNumericLead(title string) int {
	match := numberPattern.FindString(title)
	if match == "" {
		return DefaultNumericLead
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return DefaultNumericLead
	}
	return n
}

// TruncateWithEllipsis truncates s to at most limit characters, replacing the
// tail with "..." when truncation happens. The cut point leaves room for the
// ellipsis so the result never exceeds limit.
func TruncateWithEllipsis(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return strings.TrimRight(s[:limit-3], " ") + "..."
}
