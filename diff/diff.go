package diff

import (
	"fmt"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/jochie/teletekst/models"
)

const timestampLayout = "2006-01-02 15:04"

// Unified renders a unified diff between two versions of a page's content,
// with one line of context, labelled with the snapshot timestamps
func Unified(prev, next models.Page, prevAt, nextAt time.Time) (string, error) {
	a := trimTrailingBlank(prev.Content)
	b := trimTrailingBlank(next.Content)

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(a, "\n")),
		B:        difflib.SplitLines(strings.Join(b, "\n")),
		FromFile: "Vorige versie",
		FromDate: prevAt.Format(timestampLayout),
		ToFile:   "Huidige versie",
		ToDate:   nextAt.Format(timestampLayout),
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to generate diff: %w", err)
	}
	return strings.TrimRight(text, "\n"), nil
}

// trimTrailingBlank strips trailing whitespace from every line and drops any
// blank lines at the end, so padding rows don't show up as changes
func trimTrailingBlank(lines []string) []string {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " \t")
	}
	end := len(trimmed)
	for end > 0 && trimmed[end-1] == "" {
		end--
	}
	return trimmed[:end]
}
