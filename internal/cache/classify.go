package cache

import (
	"strings"
	"time"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/push"
)

type Kind int

const (
	// Ignored payloads (heartbeats, unknown text, other JSON) change nothing.
	Ignored Kind = iota
	// FullEntity payloads carry a complete article to merge.
	FullEntity
	// Signal payloads only say that something changed server-side.
	Signal
)

func (k Kind) String() string {
	switch k {
	case FullEntity:
		return "entity"
	case Signal:
		return "signal"
	default:
		return "ignored"
	}
}

// Classification is the outcome of Classify.
type Classification struct {
	Kind    Kind
	Article article.Article // set for FullEntity
	Text    string          // set for Signal
	Created bool            // Signal mentions a creation
}

var signalWords = []string{"create", "update", "delete"}

// Classify sorts a push payload into an entity, a signal or noise. now
// fills in timestamps an entity payload leaves out.
func Classify(p push.Payload, now time.Time) Classification {
	if p.Structured && p.Value.IsObject() && p.Value.Get("id").Exists() {
		return Classification{Kind: FullEntity, Article: article.FromRecord(p.Value, now)}
	}

	text, ok := p.Text()
	if !ok {
		return Classification{Kind: Ignored}
	}
	lower := strings.ToLower(text)
	for _, w := range signalWords {
		if strings.Contains(lower, w) {
			return Classification{
				Kind:    Signal,
				Text:    text,
				Created: strings.Contains(lower, "create"),
			}
		}
	}
	return Classification{Kind: Ignored}
}
