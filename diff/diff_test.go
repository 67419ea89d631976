package diff

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jochie/teletekst/models"
)

var (
	prevAt = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	nextAt = time.Date(2026, 8, 30, 9, 5, 0, 0, time.UTC)
)

func TestUnifiedIdentical(t *testing.T) {
	page := models.Page{Number: 104, Title: "Weer", Content: []string{"Zonnig", "vandaag"}}

	got, err := Unified(page, page, prevAt, nextAt)
	if err != nil {
		t.Fatalf("Unified() error = %v", err)
	}
	if got != "" {
		t.Errorf("Unified() = %q for identical pages, want empty", got)
	}
}

func TestUnifiedChanged(t *testing.T) {
	prev := models.Page{Number: 104, Title: "Weer", Content: []string{"Zonnig", "vandaag"}}
	next := models.Page{Number: 104, Title: "Weer", Content: []string{"Regen", "vandaag"}}

	got, err := Unified(prev, next, prevAt, nextAt)
	if err != nil {
		t.Fatalf("Unified() error = %v", err)
	}

	for _, want := range []string{
		"--- Vorige versie\t2026-08-30 09:00",
		"+++ Huidige versie\t2026-08-30 09:05",
		"-Zonnig",
		"+Regen",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Unified() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "-vandaag") || strings.Contains(got, "+vandaag") {
		t.Errorf("Unified() reports unchanged line as changed:\n%s", got)
	}
}

// Teletext pages pad out with blank rows; those must not show up as changes.
func TestUnifiedIgnoresTrailingBlankLines(t *testing.T) {
	prev := models.Page{Number: 104, Title: "Weer", Content: []string{"Zonnig", "", ""}}
	next := models.Page{Number: 104, Title: "Weer", Content: []string{"Zonnig   "}}

	got, err := Unified(prev, next, prevAt, nextAt)
	if err != nil {
		t.Fatalf("Unified() error = %v", err)
	}
	if got != "" {
		t.Errorf("Unified() = %q, want empty for padding-only difference", got)
	}
}

func TestTrimTrailingBlank(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"no blanks", []string{"a", "b"}, []string{"a", "b"}},
		{"trailing blanks dropped", []string{"a", "", "  ", ""}, []string{"a"}},
		{"inner blanks kept", []string{"a", "", "b", ""}, []string{"a", "", "b"}},
		{"trailing whitespace stripped", []string{"a  ", "b\t"}, []string{"a", "b"}},
		{"all blank", []string{"", " "}, []string{}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimTrailingBlank(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("trimTrailingBlank() = %q, want %q", got, tt.expected)
			}
		})
	}
}
