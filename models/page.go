package models

import (
	"fmt"
	"sort"
	"strings"
)

// Valid page number range on the Teletekst service. The news pages we walk
// live in 100-199, but special pages (weather, sports) go up to 999.
const (
	MinPageNumber = 100
	MaxPageNumber = 999
)

// Page represents one numbered Teletekst page
type Page struct {
	Number  int
	Title   string
	Content []string // body text, one entry per screen line
}

// NewPage creates a validated page record
func NewPage(number int, title string, content []string) (Page, error) {
	if number < MinPageNumber || number > MaxPageNumber {
		return Page{}, fmt.Errorf("page number %d outside valid range [%d, %d]", number, MinPageNumber, MaxPageNumber)
	}
	return Page{
		Number:  number,
		Title:   title,
		Content: content,
	}, nil
}

// Text returns the content joined into a single string
func (p Page) Text() string {
	return strings.Join(p.Content, "\n")
}

// Snapshot is the full set of known pages at one retrieval point in time,
// keyed by page number
type Snapshot map[int]Page

// Insert adds a page to the snapshot. When two pages carry the same title
// (multi-page articles are fetched per sub-page), only the lowest page number
// is kept.
func (s Snapshot) Insert(p Page) {
	for number, existing := range s {
		if existing.Title != p.Title {
			continue
		}
		if number < p.Number {
			// Already have this title under a lower number
			return
		}
		delete(s, number)
	}
	s[p.Number] = p
}

// Numbers returns the page numbers in ascending order
func (s Snapshot) Numbers() []int {
	numbers := make([]int, 0, len(s))
	for n := range s {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
