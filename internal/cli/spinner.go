package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderSpinner animates a status line on uiOut while an image render waits
// on the layout engine or rsvg-convert. The line names the output mode and
// the document and counts the elapsed seconds.
type renderSpinner struct {
	label    string
	interval time.Duration
	started  time.Time

	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int // printable width of the last line drawn
}

// newRenderSpinner labels the spinner after mode and the source document.
// An empty source or "-" reads as stdin.
func newRenderSpinner(mode, source string) *renderSpinner {
	name := "stdin"
	if source != "" && source != "-" {
		name = filepath.Base(source)
	}
	return &renderSpinner{
		label:    fmt.Sprintf("Rendering %s from %s", mode, name),
		interval: 80 * time.Millisecond,
		stopped:  make(chan struct{}),
	}
}

// start animates until ctx is done or stop is called.
func (s *renderSpinner) start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-ctx.Done():
				s.clear()
				return
			case <-ticker.C:
			}
		}
	}()
}

// stop ends the animation, clears the line and returns the time since start.
// Calling it again, or before start, is a no-op.
func (s *renderSpinner) stop() time.Duration {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.stopped
	})
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

func (s *renderSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := fmt.Sprintf("%s (%.1fs)", s.label, time.Since(s.started).Seconds())
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(text)
	fmt.Fprintf(uiOut, "\r%s", line)
	s.width = lipgloss.Width(line)
}

func (s *renderSpinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(uiOut, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}
