// Package browser hands article links to the desktop's browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Open launches the system browser on rawURL. Only http and https links
// are accepted.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		// rundll32 avoids cmd's shell parsing of the URL.
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}

// FirstLink returns the first http or https URL in text. Imported articles
// carry their source link at the end of the body.
func FirstLink(text string) (string, bool) {
	for _, field := range strings.Fields(text) {
		field = strings.TrimLeft(field, "([<\"'")
		field = strings.TrimRight(field, ".,;:!?)]>\"'")
		if !strings.HasPrefix(field, "http://") && !strings.HasPrefix(field, "https://") {
			continue
		}
		if u, err := url.Parse(field); err == nil && u.Host != "" {
			return field, true
		}
	}
	return "", false
}
