package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Headline is one entry on an index page: an article title pointing at a
// page number
type Headline struct {
	Title  string
	Number int
}

// NOS Teletekst uses custom font characters (U+F0xx private range) for
// decorative borders; they carry no text
var reFontChars = regexp.MustCompile(`(&#xF0[0-9a-fA-F]{2};)+`)

// Index pages list headlines as " <title>....... <pagenr>" with dot leaders
var reHeadline = regexp.MustCompile(`^ (\S.*[^.])(\.*) (\d{3})$`)

// Page titles are underlined with "=" ruling
var reTitleRule = regexp.MustCompile(`^=+\s+(.*)$`)

// Parser extracts text, headlines, and page bodies from the HTML snippets
// that the Teletekst JSON backend serves
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ExtractText strips the decorative font characters from an HTML snippet and
// returns its plain text content
func (p *Parser) ExtractText(htmlContent string) (string, error) {
	cleaned := reFontChars.ReplaceAllString(htmlContent, " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc.Text(), nil
}

// ParseHeadlines extracts the headline entries from an index page's text
// (pages 101-103)
func (p *Parser) ParseHeadlines(text string) []Headline {
	var headlines []Headline
	for _, line := range strings.Split(text, "\n") {
		matches := reHeadline.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		number, err := strconv.Atoi(matches[3])
		if err != nil {
			continue
		}
		headlines = append(headlines, Headline{
			Title:  matches[1],
			Number: number,
		})
	}
	return headlines
}

// ParsePage extracts the title and body lines from a content page's text.
// The title sits on the third screen line (sometimes prefixed with "="
// ruling); the body is everything between the title block and the footer
// navigation rows.
func (p *Parser) ParsePage(text string) (string, []string, error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 7 {
		return "", nil, fmt.Errorf("page text too short: %d lines", len(lines))
	}

	title := lines[2]
	if matches := reTitleRule.FindStringSubmatch(title); matches != nil {
		title = matches[1]
	}
	title = strings.TrimSpace(title)

	content := lines[4 : len(lines)-3]
	return title, content, nil
}
