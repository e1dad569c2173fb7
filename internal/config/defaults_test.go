// ABOUTME: Tests for configuration defaults
// ABOUTME: Verifies constants are properly defined

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultHTTPTimeout(t *testing.T) {
	if DefaultHTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %v", DefaultHTTPTimeout)
	}
}

func TestProviderConstants(t *testing.T) {
	if DefaultItemCount != 200 {
		t.Errorf("expected item count 200, got %d", DefaultItemCount)
	}
	if DefaultHost == "" {
		t.Error("DefaultHost should be set")
	}
}

func TestDefaultAcceptCoversFeedTypes(t *testing.T) {
	for _, mime := range []string{"application/atom+xml", "application/rss+xml", "text/xml"} {
		if !strings.Contains(DefaultAccept, mime) {
			t.Errorf("DefaultAccept missing %q", mime)
		}
	}
}

func TestLogConstants(t *testing.T) {
	if MaxLogEntries != 100 {
		t.Errorf("expected log cap 100, got %d", MaxLogEntries)
	}
	if DefaultLogLimit <= 0 || DefaultLogLimit > MaxLogEntries {
		t.Errorf("DefaultLogLimit out of range: %d", DefaultLogLimit)
	}
}
