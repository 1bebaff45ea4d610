package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sitewire/sitewire/internal/envelope"
)

// DefaultVisibleDuration is how long a toast stays visible before
// auto-dismissing.
const DefaultVisibleDuration = 3 * time.Second

// ANSI styling per severity.
var severityStyle = map[envelope.Severity]string{
	envelope.SeveritySuccess: "\033[32m", // green
	envelope.SeverityError:   "\033[31m", // red
	envelope.SeverityWarning: "\033[33m", // yellow
	envelope.SeverityInfo:    "\033[36m", // cyan
}

var severityMarker = map[envelope.Severity]string{
	envelope.SeveritySuccess: "✓",
	envelope.SeverityError:   "✗",
	envelope.SeverityWarning: "!",
	envelope.SeverityInfo:    "i",
}

const ansiReset = "\033[0m"

// TerminalToaster renders toasts on a terminal. In interactive mode a single
// line is rewritten in place per toast and cleared after the visible
// duration; in plain mode each toast is an ordinary log line.
type TerminalToaster struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	duration    time.Duration
	dismiss     *time.Timer
}

// NewTerminalToaster creates a toaster writing to w. Interactive mode
// enables in-place rewriting and auto-dismiss.
func NewTerminalToaster(w io.Writer, interactive bool) *TerminalToaster {
	return &TerminalToaster{
		w:           w,
		interactive: interactive,
		duration:    DefaultVisibleDuration,
	}
}

// ShowToast displays the message, replacing any toast currently visible.
func (t *TerminalToaster) ShowToast(message string, severity envelope.Severity) {
	t.mu.Lock()
	defer t.mu.Unlock()

	marker := severityMarker[severity]
	if marker == "" {
		marker = severityMarker[envelope.SeverityInfo]
	}

	if !t.interactive {
		fmt.Fprintf(t.w, "[%s] %s\n", string(severity), message)
		return
	}

	style := severityStyle[severity]
	// Rewrite the toast line in place.
	fmt.Fprintf(t.w, "\r\033[2K%s%s %s%s", style, marker, message, ansiReset)

	if t.dismiss != nil {
		t.dismiss.Stop()
	}
	t.dismiss = time.AfterFunc(t.duration, t.clear)
}

func (t *TerminalToaster) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, "\r\033[2K")
}
