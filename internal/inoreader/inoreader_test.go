// ABOUTME: Tests for tag stream URL construction and the live and offline sources
// ABOUTME: Live fetches run against httptest servers serving inline Atom

package inoreader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/harper/inosync/internal/fetch"
	"github.com/harper/inosync/internal/parse"
)

var fixedNow = time.Date(2024, 3, 13, 15, 30, 45, 123000000, time.UTC)

func TestFeedURL(t *testing.T) {
	got := FeedURL("www.inoreader.com", "42", "Tech News")
	want := "https://www.inoreader.com/stream/user/42/tag/Tech%20News?n=200"
	if got != want {
		t.Errorf("FeedURL() = %q, want %q", got, want)
	}

	if got := FeedURL("", "42", "go"); got != "https://www.inoreader.com/stream/user/42/tag/go?n=200" {
		t.Errorf("FeedURL() with empty host = %q", got)
	}
	escapes := []struct {
		tag  string
		want string
	}{
		{"a/b?c", "/tag/a%2Fb%3Fc?n=200"},
		{"C++", "/tag/C%2B%2B?n=200"},
		{"a&b", "/tag/a%26b?n=200"},
		{"R&D: 2024", "/tag/R%26D%3A%202024?n=200"},
		{"x=$@", "/tag/x%3D%24%40?n=200"},
		{"it's (ok)!*~", "/tag/it's%20(ok)!*~?n=200"},
		{"Café", "/tag/Caf%C3%A9?n=200"},
	}
	for _, tt := range escapes {
		if got := FeedURL("www.inoreader.com", "42", tt.tag); !strings.HasSuffix(got, tt.want) {
			t.Errorf("FeedURL(%q) = %q, want suffix %q", tt.tag, got, tt.want)
		}
	}
}

func TestBustCache(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://h/stream?n=200", "https://h/stream?n=200&t=1710343845123"},
		{"https://h/stream", "https://h/stream?t=1710343845123"},
	}

	for _, tt := range tests {
		if got := BustCache(tt.in, fixedNow); got != tt.want {
			t.Errorf("BustCache(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildFeedURL(t *testing.T) {
	plain := BuildFeedURL("www.inoreader.com", "42", "Tech News", false, fixedNow)
	if plain != "https://www.inoreader.com/stream/user/42/tag/Tech%20News?n=200" {
		t.Errorf("BuildFeedURL(force=false) = %q", plain)
	}

	forced := BuildFeedURL("www.inoreader.com", "42", "Tech News", true, fixedNow)
	if forced != plain+"&t=1710343845123" {
		t.Errorf("BuildFeedURL(force=true) = %q", forced)
	}
}

func TestParseFeedURL(t *testing.T) {
	userID, tag, err := ParseFeedURL(FeedURL("www.inoreader.com", "1005", "Tech News"))
	if err != nil {
		t.Fatalf("ParseFeedURL() error = %v", err)
	}
	if userID != "1005" || tag != "Tech News" {
		t.Errorf("ParseFeedURL() = %q, %q", userID, tag)
	}

	for _, want := range []string{"C++", "R&D: 2024", "a/b?c", "it's (ok)!"} {
		_, got, err := ParseFeedURL(FeedURL("www.inoreader.com", "1005", want))
		if err != nil || got != want {
			t.Errorf("ParseFeedURL round trip of %q = %q, %v", want, got, err)
		}
	}

	for _, bad := range []string{
		"https://example.com/feed.xml",
		"https://www.inoreader.com/stream/user/1005",
		"https://www.inoreader.com/stream/user//tag/x",
		"://nope",
	} {
		if _, _, err := ParseFeedURL(bad); err == nil {
			t.Errorf("ParseFeedURL(%q) expected error", bad)
		}
	}
}

const atomBody = `<feed xmlns="http://www.w3.org/2005/Atom"><title>t</title>
<entry><id>a</id><title>A</title></entry>
<entry><id>b</id><title>B</title></entry>
</feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	host := strings.TrimPrefix(server.URL, "https://")
	c := NewClient(host, fetch.NewClient(fetch.WithHTTPClient(server.Client()), fetch.WithInterval(0)))
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestClient_URL(t *testing.T) {
	c := NewClient("feeds.example.com", fetch.NewClient())
	c.now = func() time.Time { return fixedNow }

	if got := c.URL("7", "go", true); got != "https://feeds.example.com/stream/user/7/tag/go?n=200&t=1710343845123" {
		t.Errorf("URL() = %q", got)
	}
}

func TestClient_FetchTag_EmptyUserID(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.FetchTag(context.Background(), "", "go", false)
	if !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("FetchTag() error = %v, want ErrEmptyUserID", err)
	}
	if called {
		t.Error("expected no request without a user id")
	}
}

func TestClient_FetchTag(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream/user/42/tag/Tech News" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("n") != "200" {
			t.Errorf("expected n=200, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("t") != "1710343845123" {
			t.Errorf("expected cache-bust t param, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(atomBody))
	})

	feed, err := c.FetchTag(context.Background(), "42", "Tech News", true)
	if err != nil {
		t.Fatalf("FetchTag() error = %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("len(feed.Items) = %d, want 2", len(feed.Items))
	}
	if feed.Items[0].ID != "a" || feed.Items[1].ID != "b" {
		t.Errorf("items out of order: %q, %q", feed.Items[0].ID, feed.Items[1].ID)
	}
}

func TestClient_FetchTag_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			check: func(err error) bool {
				var httpErr *fetch.HTTPError
				return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusForbidden
			},
		},
		{
			name: "blocked",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<!DOCTYPE html><html><body>Checking your browser</body></html>"))
			},
			check: func(err error) bool { return errors.Is(err, parse.ErrBlockedResponse) },
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<feed><entry>"))
			},
			check: func(err error) bool { return errors.Is(err, parse.ErrMalformedFeed) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.FetchTag(context.Background(), "42", "go", false)
			if !tt.check(err) {
				t.Errorf("FetchTag() error = %v", err)
			}
		})
	}
}

func TestOffline_FetchTag(t *testing.T) {
	src := Offline{Now: func() time.Time { return fixedNow }}

	feed, err := src.FetchTag(context.Background(), "1005", "golang", true)
	if err != nil {
		t.Fatalf("FetchTag() error = %v", err)
	}
	if len(feed.Items) != 3 {
		t.Fatalf("len(feed.Items) = %d, want 3", len(feed.Items))
	}
	for _, item := range feed.Items {
		if !parse.IsPlaceholder(item) {
			t.Errorf("item %q is not a placeholder", item.ID)
		}
	}
	if !feed.Items[0].Published.Equal(fixedNow) {
		t.Errorf("Published = %v, want injected now", feed.Items[0].Published)
	}
}
