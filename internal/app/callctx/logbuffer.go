package callctx

import (
	"bytes"
	"strings"
	"sync"
	"time"
)

// DefaultLogLimit is the default log buffer capacity in bytes.
const DefaultLogLimit = 500_000

// LogBuffer accumulates timestamped, depth-indented trace lines. When the
// content grows beyond the limit, the oldest lines are trimmed from the
// front.
type LogBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
	now   func() time.Time
}

// NewLogBuffer creates a buffer holding at most limit bytes. A non-positive
// limit selects DefaultLogLimit.
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return &LogBuffer{limit: limit, now: time.Now}
}

// Write appends msg indented by depth. Continuation lines of a multi-line
// message keep the same indentation.
func (l *LogBuffer) Write(depth int, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	indent := strings.Repeat("  ", max(depth, 0))
	prefix := l.now().Format("15:04:05.000") + ": " + indent
	for i, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if i == 0 {
			l.buf = append(l.buf, prefix...)
		} else {
			l.buf = append(l.buf, strings.Repeat(" ", len(prefix))...)
		}
		l.buf = append(l.buf, line...)
		l.buf = append(l.buf, '\n')
	}
	l.trim()
}

// trim drops content from the front, preferring a line boundary. Must be
// called with l.mu held.
func (l *LogBuffer) trim() {
	over := len(l.buf) - l.limit
	if over <= 0 {
		return
	}
	cut := over
	if l.buf[over-1] != '\n' {
		if i := bytes.IndexByte(l.buf[over:], '\n'); i >= 0 && over+i+1 < len(l.buf) {
			cut = over + i + 1
		}
	}
	l.buf = append(l.buf[:0], l.buf[cut:]...)
}

// Len returns the current content size in bytes.
func (l *LogBuffer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buf)
}

// String returns the buffered text.
func (l *LogBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return string(l.buf)
}
