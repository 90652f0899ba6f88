package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/gateway"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"invalid", 0, true},
		{"", 0, true},
		{"d", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSince(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("parseSince(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSince(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSince(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		flag    string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"sport", "Sport", false},
		{"pol", "Politika", false},
		{"Tech", "Tech", false},
		{"weather", "", true},
	}
	for _, tt := range tests {
		got, err := resolveCategory(tt.flag)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveCategory(%q) error = %v, wantErr %v", tt.flag, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveCategory(%q) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestNewerThan(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	list := []article.Article{
		{ID: 1, CreatedAt: now.Add(-time.Hour)},
		{ID: 2, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: 3, CreatedAt: now.Add(-24 * time.Hour)},
	}

	got := newerThan(list, now.Add(-24*time.Hour))
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("expected ids 1 and 3, got %+v", got)
	}
	if got := newerThan(list, time.Time{}); len(got) != 3 {
		t.Errorf("zero since should keep everything, got %d", len(got))
	}
}

func TestPublishAll(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var d article.Draft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil || r.URL.Path != "/article/create" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if d.Title == "reject me" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	gw, err := gateway.New(gateway.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	drafts := []article.Draft{
		{Title: "one"}, {Title: "two"}, {Title: "reject me"}, {Title: "four"}, {Title: "five"},
	}

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	published, failed := publishAll(cmd, gw, drafts)
	if published != 4 || failed != 1 {
		t.Errorf("expected 4 published and 1 failed, got %d and %d", published, failed)
	}
	if calls.Load() != 5 {
		t.Errorf("expected 5 requests, got %d", calls.Load())
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	if got := out.String(); !strings.Contains(got, "informator 1.2.3 (commit: abc") {
		t.Errorf("unexpected version output %q", got)
	}
}
