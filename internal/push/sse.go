package push

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// frame is one Server-Sent Event as read off the wire.
type frame struct {
	name string
	data string
}

// scanner reads text/event-stream frames. Events end at a blank line;
// multiple data lines are joined with "\n"; comment lines (":") and
// unknown fields are skipped.
type scanner struct {
	reader *bufio.Reader
	cur    frame
	err    error
	// retry is the last reconnection delay the server asked for.
	retry time.Duration
}

func newScanner(r io.Reader) *scanner {
	return &scanner{reader: bufio.NewReaderSize(r, 64*1024)}
}

func (s *scanner) next() bool {
	if s.err != nil {
		return false
	}

	var (
		data    []string
		hasData bool
		name    string
	)

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			s.err = err
			// A final event without its blank line is dropped, as
			// browsers do.
			return false
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData {
				s.cur = frame{name: name, data: strings.Join(data, "\n")}
				return true
			}
			name = ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if ok {
			value = strings.TrimPrefix(value, " ")
		}
		switch field {
		case "data":
			data = append(data, value)
			hasData = true
		case "event":
			name = value
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				s.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}

func (s *scanner) frame() frame { return s.cur }

// Err returns nil when the stream ended with a clean EOF.
func (s *scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
