package db

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		expected string
	}{
		{"unset uses default", "", false, "fallback"},
		{"set value wins", "teletekst-db", true, "teletekst-db"},
		{"set but empty stays empty", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TELETEKST_TEST_VAR"
			t.Setenv(key, tt.value)
			if !tt.set {
				os.Unsetenv(key)
			}
			if got := getEnvOrDefault(key, "fallback"); got != tt.expected {
				t.Errorf("getEnvOrDefault(%q) = %q, want %q", key, got, tt.expected)
			}
		})
	}
}
