package mapper

import (
	"go.uber.org/zap"

	"shape-mapper/internal/match"
	"shape-mapper/metrics"
	"shape-mapper/primitive"
)

type settings struct {
	requireInitialize bool
	nullSafe          bool
	match             match.Options
}

func defaultSettings() settings {
	return settings{
		requireInitialize: true,
		nullSafe:          true,
		match: match.Options{
			NormalizedNames: true,
			Flattening:      true,
			Conversions:     primitive.CategoryDefault,
		},
	}
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records mapping activity with r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Mapper) { m.metrics = r }
}

// WithRequireInitialize controls whether Map fails with ErrNotInitialized
// until Initialize has run. Enabled by default.
func WithRequireInitialize(v bool) Option {
	return func(m *Mapper) { m.opts.requireInitialize = v }
}

// WithNullSafeDefault sets the CheckNull default of new bindings. Enabled by
// default.
func WithNullSafeDefault(v bool) Option {
	return func(m *Mapper) { m.opts.nullSafe = v }
}

// WithNormalizedNames lets default matching pair customer_id with CustomerID.
func WithNormalizedNames(v bool) Option {
	return func(m *Mapper) { m.opts.match.NormalizedNames = v }
}

// WithFlattening lets default matching pair CustomerName with Customer.Name.
func WithFlattening(v bool) Option {
	return func(m *Mapper) { m.opts.match.Flattening = v }
}

// WithConversions sets the primitive conversion categories default matching
// and ForMember accept.
func WithConversions(c primitive.CategoryEnum) Option {
	return func(m *Mapper) { m.opts.match.Conversions = c }
}
