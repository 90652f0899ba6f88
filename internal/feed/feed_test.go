package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matakom/informator-3000/internal/classify"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
  <title>Daily Wire</title>
  <link>https://news.example.com</link>
  <item>
    <title>Parliament votes on the budget</title>
    <link>https://news.example.com/budget</link>
    <description>&lt;p&gt;The government &lt;b&gt;coalition&lt;/b&gt; won the vote.&lt;/p&gt;</description>
    <author>desk@example.com (Politics Desk)</author>
  </item>
  <item>
    <title>Cup final tonight</title>
    <link>https://news.example.com/final</link>
    <description>The league season ends with the championship match.</description>
  </item>
  <item>
    <title></title>
    <description></description>
  </item>
</channel>
</rss>`

func serveFeed(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestDraftsClassifiesItems(t *testing.T) {
	url := serveFeed(t, sampleRSS)

	got, err := Drafts(context.Background(), url, "", "")
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 drafts (empty item skipped), got %d", len(got))
	}

	first := got[0]
	if first.Title != "Parliament votes on the budget" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.Category != string(classify.Politika) {
		t.Errorf("expected Politika, got %s", first.Category)
	}
	if !strings.HasPrefix(first.Content, "The government coalition won the vote.") {
		t.Errorf("expected HTML stripped, got %q", first.Content)
	}
	if !strings.HasSuffix(first.Content, "https://news.example.com/budget") {
		t.Errorf("expected link appended, got %q", first.Content)
	}
	if first.Author != "Politics Desk" {
		t.Errorf("expected item author, got %q", first.Author)
	}

	second := got[1]
	if second.Category != string(classify.Sport) {
		t.Errorf("expected Sport, got %s", second.Category)
	}
	if second.Author != "Daily Wire" {
		t.Errorf("expected feed title as author fallback, got %q", second.Author)
	}
}

func TestDraftsOverrides(t *testing.T) {
	url := serveFeed(t, sampleRSS)

	got, err := Drafts(context.Background(), url, classify.Tech, "Importer")
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	for _, d := range got {
		if d.Category != "Tech" || d.Author != "Importer" {
			t.Errorf("expected overrides applied, got %+v", d)
		}
	}
}

func TestDraftsBadFeed(t *testing.T) {
	url := serveFeed(t, "not a feed")
	if _, err := Drafts(context.Background(), url, "", ""); err == nil {
		t.Error("expected error for unparsable feed")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	// Japanese characters are multi-byte but should truncate by rune
	input := "こんにちは世界です"
	got := truncate(input, 5)
	want := "こん..."
	if got != want {
		t.Errorf("truncate(%q, 5) = %q, want %q", input, got, want)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
