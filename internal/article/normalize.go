package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Placeholders used when the server omits a field entirely.
const (
	DefaultTitle    = "No Title"
	DefaultAuthor   = "Unknown"
	DefaultCategory = "General"
)

// The server emits either camelCase or PascalCase keys. Each field is
// looked up under its camelCase key first; JSON null counts as absent.
var fieldKeys = struct {
	id, title, author, content, category, createdAt, updatedAt [2]string
}{
	id:        [2]string{"id", "ID"},
	title:     [2]string{"title", "Title"},
	author:    [2]string{"author", "Author"},
	content:   [2]string{"content", "Content"},
	category:  [2]string{"category", "Category"},
	createdAt: [2]string{"createdAt", "CreatedAt"},
	updatedAt: [2]string{"updatedAt", "UpdatedAt"},
}

func lookup(rec gjson.Result, keys [2]string) (gjson.Result, bool) {
	for _, k := range keys {
		v := rec.Get(k)
		if v.Exists() && v.Type != gjson.Null {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func stringField(rec gjson.Result, keys [2]string, def string) string {
	if v, ok := lookup(rec, keys); ok {
		return v.String()
	}
	return def
}

func timeField(rec gjson.Result, keys [2]string, now time.Time) time.Time {
	v, ok := lookup(rec, keys)
	if !ok {
		return now
	}
	t, err := ParseTime(v.String())
	if err != nil {
		return now
	}
	return t
}

// FromRecord maps one raw server record onto an Article. Missing fields
// get the package defaults; missing or unparsable timestamps get now.
func FromRecord(rec gjson.Result, now time.Time) Article {
	var id int64
	if v, ok := lookup(rec, fieldKeys.id); ok {
		id = v.Int()
	}
	return Article{
		ID:        id,
		Title:     stringField(rec, fieldKeys.title, DefaultTitle),
		Author:    stringField(rec, fieldKeys.author, DefaultAuthor),
		Content:   stringField(rec, fieldKeys.content, ""),
		Category:  stringField(rec, fieldKeys.category, DefaultCategory),
		CreatedAt: timeField(rec, fieldKeys.createdAt, now),
		UpdatedAt: timeField(rec, fieldKeys.updatedAt, now),
	}
}

// DecodeList decodes a JSON array of raw records. A body that is not a
// JSON array is an error.
func DecodeList(body []byte, now time.Time) ([]Article, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decoding article list: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("decoding article list: expected array, got %s", root.Type)
	}
	records := root.Array()
	out := make([]Article, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec, now))
	}
	return out, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTime accepts RFC 3339 timestamps and zone-less ISO-8601 ones,
// which are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
