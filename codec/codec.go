// Package codec converts between jsonkit trees and text (JSON, JSONC, YAML)
// and between trees and Go values, with per-type conversion hooks.
package codec

import (
	"log/slog"
	"reflect"
	"sync"

	jsonkit "github.com/reoring/jsonkit"
	eng "github.com/reoring/jsonkit/internal/engine"
)

// Severity expresses how duplicate object keys are treated when decoding.
type Severity int

const (
	// Ignore keeps the last value silently.
	Ignore Severity = iota
	// Warn keeps the last value and logs the duplicate.
	Warn
	// Error rejects the input.
	Error
)

func (s Severity) engine() eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	}
	return eng.DupIgnore
}

type options struct {
	maxDepth   int
	maxBytes   int64
	duplicates Severity
	decimals   bool
	indent     string
	logger     *slog.Logger
}

// Option configures a Codec.
type Option func(*options)

// WithMaxDepth limits nesting of decoded documents; 0 means unlimited.
func WithMaxDepth(n int) Option { return func(o *options) { o.maxDepth = n } }

// WithMaxBytes limits the size of decoded input; 0 means unlimited.
func WithMaxBytes(n int64) Option { return func(o *options) { o.maxBytes = n } }

// WithDuplicateKeys sets the duplicate key policy. The default is Ignore.
func WithDuplicateKeys(s Severity) Option { return func(o *options) { o.duplicates = s } }

// WithDecimals keeps floating literals as exact decimal text.
func WithDecimals(on bool) Option { return func(o *options) { o.decimals = on } }

// WithIndent sets the indent used by pretty output. The default is two spaces.
func WithIndent(s string) Option { return func(o *options) { o.indent = s } }

// WithLogger sets the logger for decode warnings. A nil logger discards.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

type (
	encodeFunc func(any) (*jsonkit.Node, error)
	decodeFunc func(*jsonkit.Node) (any, error)
)

// Codec encodes Go values into trees and decodes text into trees. Hook
// registration is guarded so a Codec may be shared across goroutines.
type Codec struct {
	mu       sync.RWMutex
	encoders map[reflect.Type]encodeFunc
	decoders map[reflect.Type]decodeFunc
	opts     options
}

// New returns a Codec with the time.Time hooks installed.
func New(opts ...Option) *Codec {
	c := &Codec{
		encoders: map[reflect.Type]encodeFunc{},
		decoders: map[reflect.Type]decodeFunc{},
		opts:     options{indent: "  "},
	}
	for _, o := range opts {
		o(&c.opts)
	}
	if c.opts.logger == nil {
		c.opts.logger = slog.New(slog.DiscardHandler)
	}
	registerTimeHooks(c)
	return c
}

var defaultCodec = sync.OnceValue(func() *Codec { return New() })

// Default returns the shared Codec used by the package-level helpers.
func Default() *Codec { return defaultCodec() }

// RegisterEncoder installs fn for values whose dynamic type is exactly T.
// A later registration for the same type replaces the earlier one.
func RegisterEncoder[T any](c *Codec, fn func(T) (*jsonkit.Node, error)) {
	t := reflect.TypeFor[T]()
	c.mu.Lock()
	c.encoders[t] = func(v any) (*jsonkit.Node, error) { return fn(v.(T)) }
	c.mu.Unlock()
	c.opts.logger.Debug("encoder registered", "type", t.String())
}

// RegisterDecoder installs fn as the conversion from a tree to T used by
// DecodeInto. A later registration for the same type replaces the earlier one.
func RegisterDecoder[T any](c *Codec, fn func(*jsonkit.Node) (T, error)) {
	t := reflect.TypeFor[T]()
	c.mu.Lock()
	c.decoders[t] = func(n *jsonkit.Node) (any, error) { return fn(n) }
	c.mu.Unlock()
	c.opts.logger.Debug("decoder registered", "type", t.String())
}

func (c *Codec) encoderFor(t reflect.Type) (encodeFunc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.encoders[t]
	return fn, ok
}

func (c *Codec) decoderFor(t reflect.Type) (decodeFunc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.decoders[t]
	return fn, ok
}
