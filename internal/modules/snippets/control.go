// Package snippets provides the copyable code blocks and the copy control that
// drives their "copied" indicator.
package snippets

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultResetWindow is how long the indicator stays on after a copy
const DefaultResetWindow = 2 * time.Second

// Clipboard receives copied text
type Clipboard interface {
	WriteAll(text string) error
}

// Timer is a pending callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules on real time
var SystemClock Clock = systemClock{}

// Control copies text to a clipboard and owns the indicator's revert timer.
// Each copy replaces the pending revert, so the indicator turns off one reset
// window after the most recent copy.
type Control struct {
	clipboard Clipboard
	clock     Clock
	window    time.Duration
	onChange  func(copied bool)
	log       zerolog.Logger

	mu     sync.Mutex
	copied bool
	timer  Timer
	gen    uint64 // bumped on every copy; stale revert callbacks compare against it
}

// Option configures a Control
type Option func(*Control)

// WithClock replaces the system clock
func WithClock(clock Clock) Option {
	return func(c *Control) { c.clock = clock }
}

// WithResetWindow sets how long the indicator stays on. Non-positive values
// keep the default.
func WithResetWindow(d time.Duration) Option {
	return func(c *Control) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithOnChange registers a callback fired on every indicator flip
func WithOnChange(fn func(copied bool)) Option {
	return func(c *Control) { c.onChange = fn }
}

// NewControl creates a copy control writing to clipboard
func NewControl(clipboard Clipboard, log zerolog.Logger, opts ...Option) *Control {
	c := &Control{
		clipboard: clipboard,
		clock:     SystemClock,
		window:    DefaultResetWindow,
		log:       log.With().Str("component", "copy_control").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy writes text to the clipboard and turns the indicator on. A clipboard
// failure is logged and returned, but the indicator still flips.
func (c *Control) Copy(text string) error {
	var writeErr error
	if c.clipboard != nil {
		writeErr = c.clipboard.WriteAll(text)
		if writeErr != nil {
			c.log.Warn().Err(writeErr).Msg("Clipboard write failed")
		}
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	wasCopied := c.copied
	c.copied = true
	c.timer = c.clock.AfterFunc(c.window, func() { c.revert(gen) })
	c.mu.Unlock()

	if !wasCopied {
		c.notify(true)
	}
	return writeErr
}

func (c *Control) revert(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		// superseded by a later copy
		c.mu.Unlock()
		return
	}
	c.copied = false
	c.timer = nil
	c.mu.Unlock()

	c.notify(false)
}

func (c *Control) notify(copied bool) {
	if c.onChange != nil {
		c.onChange(copied)
	}
}

// Copied reports whether the indicator is on
func (c *Control) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Pending reports whether a revert is scheduled
func (c *Control) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// ResetWindow returns the configured indicator window
func (c *Control) ResetWindow() time.Duration {
	return c.window
}

// Close cancels any pending revert and turns the indicator off
func (c *Control) Close() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	wasCopied := c.copied
	c.copied = false
	c.mu.Unlock()

	if wasCopied {
		c.notify(false)
	}
}
