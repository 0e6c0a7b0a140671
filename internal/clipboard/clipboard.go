// Package clipboard provides the clipboard collaborator used by paste and
// copy.
//
// System talks to the host clipboard through atotto/clipboard. Memory is
// an in-process register. Fallback chains the two so copy and paste keep
// working on hosts without a clipboard utility.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

var (
	// ErrUnavailable indicates the system clipboard cannot be used.
	ErrUnavailable = errors.New("clipboard unavailable")

	// ErrEmpty indicates nothing has been written to a register yet.
	ErrEmpty = errors.New("clipboard empty")
)

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
}

// System is the host clipboard.
type System struct{}

// NewSystem returns the host clipboard.
func NewSystem() *System {
	return &System{}
}

// Available reports whether a clipboard utility was found on this host.
func (s *System) Available() bool {
	return !clipboard.Unsupported
}

// ReadText returns the clipboard contents. The call is abandoned when ctx
// is done.
func (s *System) ReadText(ctx context.Context) (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := clipboard.ReadAll()
		ch <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, r.err)
		}
		return r.text, nil
	}
}

// WriteText replaces the clipboard contents.
func (s *System) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}

	ch := make(chan error, 1)
	go func() {
		ch <- clipboard.WriteAll(text)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-ch:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	}
}

// Memory is an in-process clipboard register.
type Memory struct {
	mu      sync.Mutex
	text    string
	written bool
}

// NewMemory returns an empty register.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadText returns the last written text, or ErrEmpty before the first
// write.
func (m *Memory) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.written {
		return "", ErrEmpty
	}
	return m.text, nil
}

// WriteText stores text.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.written = true
	return nil
}

// Fallback uses Primary and falls back to Secondary when it fails.
// Writes always reach Secondary so a later read still sees the text after
// the primary stops working.
type Fallback struct {
	Primary   Clipboard
	Secondary Clipboard
}

// NewFallback chains primary and secondary.
func NewFallback(primary, secondary Clipboard) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

// ReadText reads from Primary, or from Secondary when Primary fails. When
// both fail the error wraps both causes.
func (f *Fallback) ReadText(ctx context.Context) (string, error) {
	var primaryErr error
	if f.Primary != nil {
		text, err := f.Primary.ReadText(ctx)
		if err == nil {
			return text, nil
		}
		if f.Secondary == nil || ctx.Err() != nil {
			return "", err
		}
		primaryErr = err
	}
	if f.Secondary == nil {
		return "", ErrUnavailable
	}
	text, err := f.Secondary.ReadText(ctx)
	if err != nil {
		return "", errors.Join(primaryErr, err)
	}
	return text, nil
}

// WriteText writes to both clipboards. It fails only if every write fails.
func (f *Fallback) WriteText(ctx context.Context, text string) error {
	var errs []error
	wrote := false
	for _, c := range []Clipboard{f.Primary, f.Secondary} {
		if c == nil {
			continue
		}
		if err := c.WriteText(ctx, text); err != nil {
			errs = append(errs, err)
			continue
		}
		wrote = true
	}
	if wrote {
		return nil
	}
	if len(errs) == 0 {
		return ErrUnavailable
	}
	return errors.Join(errs...)
}
