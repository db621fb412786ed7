package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames is shared by the CLI spinner and the panel's push indicator.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

// Spinner animates one line while a device command is in flight, then
// replaces it with the outcome and its timing.
type Spinner struct {
	mu        sync.Mutex
	w         io.Writer
	label     string
	state     SpinnerState
	frame     int
	startTime time.Time
	lastLen   int
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{w: w, label: label}
}

// Spin runs fn behind a spinner and returns its error.
func Spin(w io.Writer, label string, fn func() error) error {
	s := NewSpinner(w, label)
	s.Start()
	err := fn()
	s.Finish(err)
	return err
}

// Start begins the animation. Starting twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.state == SpinnerInProgress {
		s.mu.Unlock()
		return
	}
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.renderLocked()
	s.mu.Unlock()

	go s.animate()
}

// Finish stops the animation and prints the outcome: success when err is
// nil, failure otherwise.
func (s *Spinner) Finish(err error) {
	s.mu.Lock()
	if s.state != SpinnerInProgress {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.mu.Unlock()
	<-s.doneChan

	s.mu.Lock()
	defer s.mu.Unlock()

	symbol, color := SymbolComplete, ColorSuccess
	s.state = SpinnerSuccess
	if err != nil {
		symbol, color = SymbolFail, ColorError
		s.state = SpinnerFailed
	}
	s.clearLocked()
	fmt.Fprintf(s.w, "%s %s %s\n",
		lipgloss.NewStyle().Foreground(color).Render(symbol),
		s.label,
		MutedStyle().Render(formatDuration(time.Since(s.startTime))),
	)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(SpinnerFrames.FPS)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(SpinnerFrames.Frames)
			s.renderLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) renderLocked() {
	color := GradientColors[s.frame%len(GradientColors)]
	line := lipgloss.NewStyle().Foreground(color).Render(SpinnerFrames.Frames[s.frame]) + " " + s.label + "..."
	s.clearLocked()
	fmt.Fprint(s.w, line)
	s.lastLen = lipgloss.Width(line)
}

func (s *Spinner) clearLocked() {
	if s.lastLen > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.lastLen)+"\r")
		s.lastLen = 0
	}
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
