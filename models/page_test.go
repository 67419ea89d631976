package models

import (
	"reflect"
	"testing"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name    string
		number  int
		wantErr bool
	}{
		{"lowest valid number", 100, false},
		{"typical news page", 104, false},
		{"highest valid number", 999, false},
		{"below range", 99, true},
		{"above range", 1000, true},
		{"zero", 0, true},
		{"negative", -104, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPage(tt.number, "Titel", []string{"regel"})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPage(%d) error = %v, wantErr %v", tt.number, err, tt.wantErr)
			}
		})
	}
}

func TestPageText(t *testing.T) {
	page := Page{Number: 104, Title: "Weer", Content: []string{"Zonnig", "vandaag"}}
	if got := page.Text(); got != "Zonnig\nvandaag" {
		t.Errorf("Text() = %q, want %q", got, "Zonnig\nvandaag")
	}
}

func TestSnapshotInsertKeepsLowestDuplicate(t *testing.T) {
	higher := Page{Number: 110, Title: "Kort nieuws", Content: []string{"b"}}
	lower := Page{Number: 105, Title: "Kort nieuws", Content: []string{"a"}}

	t.Run("lower first", func(t *testing.T) {
		s := Snapshot{}
		s.Insert(lower)
		s.Insert(higher)
		if len(s) != 1 {
			t.Fatalf("expected 1 page, got %d", len(s))
		}
		if _, ok := s[105]; !ok {
			t.Errorf("expected page 105 kept, got %v", s.Numbers())
		}
	})

	t.Run("higher first", func(t *testing.T) {
		s := Snapshot{}
		s.Insert(higher)
		s.Insert(lower)
		if len(s) != 1 {
			t.Fatalf("expected 1 page, got %d", len(s))
		}
		if _, ok := s[105]; !ok {
			t.Errorf("expected page 105 kept, got %v", s.Numbers())
		}
	})
}

func TestSnapshotInsertDistinctTitles(t *testing.T) {
	s := Snapshot{}
	s.Insert(Page{Number: 105, Title: "Binnenland", Content: []string{"a"}})
	s.Insert(Page{Number: 110, Title: "Buitenland", Content: []string{"b"}})
	if len(s) != 2 {
		t.Errorf("expected 2 pages, got %d", len(s))
	}
}

func TestSnapshotNumbers(t *testing.T) {
	s := Snapshot{
		150: {Number: 150, Title: "C"},
		104: {Number: 104, Title: "A"},
		110: {Number: 110, Title: "B"},
	}
	if got := s.Numbers(); !reflect.DeepEqual(got, []int{104, 110, 150}) {
		t.Errorf("Numbers() = %v, want [104 110 150]", got)
	}
}
