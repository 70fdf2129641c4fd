package vkhelper

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// Layer is one step of a resource chain. Acquire creates the resource and
// Release destroys it. Release is only called after a successful Acquire
// and may be nil for resources that need no cleanup.
type Layer struct {
	Name    string
	Acquire func() error
	Release func()
}

// Own builds a layer that stores the acquired resource in dst and destroys
// it on release.
func Own[T Destroyer](name string, dst *T, acquire func() (T, error)) Layer {
	return Layer{
		Name: name,
		Acquire: func() error {
			v, err := acquire()
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
		Release: func() {
			(*dst).Destroy()
		},
	}
}

// Chain acquires layers in order and releases them in reverse. It is not
// safe for concurrent use.
type Chain struct {
	logger   *slog.Logger
	acquired []Layer
	closed   bool
}

// NewChain returns an empty chain logging to logger, or to slog.Default if
// logger is nil.
func NewChain(logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{logger: logger}
}

// Build acquires every layer in order. If one fails, the layers acquired so
// far are released in reverse order and the error is returned wrapped with
// the failing layer's name. Later layers are never touched.
func (c *Chain) Build(layers ...Layer) error {
	if c.closed {
		return errors.New("chain is closed")
	}
	for _, l := range layers {
		if l.Acquire != nil {
			if err := l.Acquire(); err != nil {
				c.logger.Debug("acquire failed", slog.String("layer", l.Name), slog.Any("err", err))
				c.Close()
				return errors.WithMessagef(err, "%s", l.Name)
			}
		}
		c.logger.Debug("acquired", slog.String("layer", l.Name))
		c.acquired = append(c.acquired, l)
	}
	return nil
}

// Close releases every acquired layer in reverse order. Calling it again is
// a no-op.
func (c *Chain) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for i := len(c.acquired) - 1; i >= 0; i-- {
		l := c.acquired[i]
		if l.Release != nil {
			l.Release()
		}
		c.logger.Debug("released", slog.String("layer", l.Name))
	}
	c.acquired = nil
}

// Len returns the number of layers currently held
func (c *Chain) Len() int {
	return len(c.acquired)
}
