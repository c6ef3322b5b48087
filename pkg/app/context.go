package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/device"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool
	NoColor      bool

	// Common timeouts
	DefaultTimeout time.Duration

	// Device options used when opening images
	Device *device.Config

	// Logger receives every diagnostic the handlers emit
	Logger *logrus.Entry

	// Progress reporting
	ProgressCallback func(message string, percent int)
}

// NewContext creates a new application context logging to the standard logrus logger
func NewContext() *Context {
	return &Context{
		Context:        context.Background(),
		OutputFormat:   "table",
		DefaultTimeout: 30 * time.Second,
		Device:         device.DefaultConfig(),
		Logger:         logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithTimeout creates a context with timeout
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// WithFields returns a copy of the context whose logger carries fields
func (c *Context) WithFields(fields logrus.Fields) *Context {
	newCtx := *c
	newCtx.Logger = c.logger().WithFields(fields)
	return &newCtx
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

func (c *Context) logger() *logrus.Entry {
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return c.Logger
}

// Log records an informational message; it is only shown in verbose mode
func (c *Context) Log(message string) {
	if c.Quiet || !c.Verbose {
		c.logger().Debug(message)
		return
	}
	c.logger().Info(message)
}

// Debug records a debug message
func (c *Context) Debug(message string) {
	c.logger().Debug(message)
}

// Warn records a recoverable problem unless quiet
func (c *Context) Warn(message string) {
	if c.Quiet {
		return
	}
	c.logger().Warn(message)
}

// Error records an error message; errors are logged even in quiet mode
func (c *Context) Error(message string) {
	c.logger().Error(message)
}
