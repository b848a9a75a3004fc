package archive

import "go.uber.org/zap"

type config struct {
	logger          *zap.Logger
	maxObjects      int
	maxContainerLen uint32
}

// Option configures an Archive.
type Option func(*config)

// WithLogger overrides the package logger for one archive.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMaxObjects caps the number of objects, root included, one read may
// create. Zero means no limit.
func WithMaxObjects(n int) Option {
	return func(c *config) {
		c.maxObjects = n
	}
}

// WithMaxContainerLen caps the element count of arrays, strings and
// dictionaries. Zero means no limit.
func WithMaxContainerLen(n uint32) Option {
	return func(c *config) {
		c.maxContainerLen = n
	}
}
