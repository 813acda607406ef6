package logtail

import (
	"bytes"
	"strings"
	"sync"
)

// Ring is an io.Writer that keeps the last maxLines complete lines written to
// it. A trailing partial line is kept separately until its newline arrives.
type Ring struct {
	mu      sync.Mutex
	lines   []string
	next    int
	count   int
	partial []byte
}

// NewRing returns a Ring holding at most maxLines lines. Values below one are
// raised to one.
func NewRing(maxLines int) *Ring {
	if maxLines < 1 {
		maxLines = 1
	}
	return &Ring{lines: make([]string, maxLines)}
}

// Write implements io.Writer. It never fails.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := p
	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			r.partial = append(r.partial, data...)
			break
		}
		r.partial = append(r.partial, data[:idx]...)
		r.push(strings.TrimRight(string(r.partial), "\r"))
		r.partial = r.partial[:0]
		data = data[idx+1:]
	}
	return len(p), nil
}

func (r *Ring) push(line string) {
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
	if r.count < len(r.lines) {
		r.count++
	}
}

// Lines returns the retained lines oldest first, including a pending partial
// line.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, r.count+1)
	start := 0
	if r.count == len(r.lines) {
		start = r.next
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.lines[(start+i)%len(r.lines)])
	}
	if len(r.partial) > 0 {
		out = append(out, string(r.partial))
	}
	return out
}

// Last returns the most recent non-blank line, or "" when nothing was written.
func (r *Ring) Last() string {
	lines := r.Lines()
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
