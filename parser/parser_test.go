package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "plain tags stripped",
			html:     `<span class="yellow">Hello</span> wereld`,
			expected: "Hello wereld",
		},
		{
			name:     "font characters replaced",
			html:     `kop&#xF020;&#xF021;tekst`,
			expected: "kop tekst",
		},
		{
			name:     "nested markup",
			html:     `<pre><span>regel 1</span>` + "\n" + `<span>regel 2</span></pre>`,
			expected: "regel 1\nregel 2",
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ExtractText(tt.html)
			if err != nil {
				t.Fatalf("ExtractText() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("ExtractText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseHeadlines(t *testing.T) {
	text := strings.Join([]string{
		"  NOS Teletekst 101",
		" Kabinet valt over asielbeleid........ 104",
		" Treinverkeer rond Utrecht plat....... 105",
		"geen inspringing, geen headline 106",
		" Binnenland 107", // no dot leader is fine, one space before number
		"",
	}, "\n")

	p := NewParser()
	headlines := p.ParseHeadlines(text)

	expected := []Headline{
		{Title: "Kabinet valt over asielbeleid", Number: 104},
		{Title: "Treinverkeer rond Utrecht plat", Number: 105},
		{Title: "Binnenland", Number: 107},
	}
	if !reflect.DeepEqual(headlines, expected) {
		t.Errorf("ParseHeadlines() = %+v, want %+v", headlines, expected)
	}
}

func TestParseHeadlinesEmpty(t *testing.T) {
	p := NewParser()
	if got := p.ParseHeadlines("geen headlines hier\n104 niet goed"); got != nil {
		t.Errorf("ParseHeadlines() = %+v, want nil", got)
	}
}

func TestParsePage(t *testing.T) {
	lines := []string{
		"",                      // 0: decorative header
		" NOS Teletekst 104",    // 1: service banner
		"=== Kabinet valt",      // 2: title with ruling
		"",                      // 3: blank
		"Het kabinet is",        // 4: body
		"vandaag gevallen",      // 5: body
		"",                      // 6: body padding
		"Binnenland 105",        // 7: footer navigation
		"Buitenland 106",        // 8
		" volgende pagina 105 ", // 9
	}

	p := NewParser()
	title, content, err := p.ParsePage(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}
	if title != "Kabinet valt" {
		t.Errorf("title = %q, want %q", title, "Kabinet valt")
	}
	expected := []string{"Het kabinet is", "vandaag gevallen", ""}
	if !reflect.DeepEqual(content, expected) {
		t.Errorf("content = %q, want %q", content, expected)
	}
}

func TestParsePageTitleWithoutRuling(t *testing.T) {
	lines := []string{"", "", "  Weerbericht  ", "", "Zonnig", "", "", ""}

	p := NewParser()
	title, _, err := p.ParsePage(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}
	if title != "Weerbericht" {
		t.Errorf("title = %q, want %q", title, "Weerbericht")
	}
}

func TestParsePageTooShort(t *testing.T) {
	p := NewParser()
	if _, _, err := p.ParsePage("een\nenkel\nregeltje"); err == nil {
		t.Error("ParsePage() expected error for short page, got nil")
	}
}
