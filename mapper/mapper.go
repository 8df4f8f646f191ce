package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"shape-mapper/internal/shape"
	"shape-mapper/metrics"
)

// Mapper owns a registry of configurations and the services they use.
// It is safe for concurrent use once configured.
type Mapper struct {
	registry *Registry
	logger   *zap.Logger
	metrics  *metrics.Recorder
	opts     settings
	ready    atomic.Bool

	mu         sync.RWMutex
	services   func(reflect.Type) (any, error)
	converters map[converterKey]converter
}

// New creates a mapper with an empty registry.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		registry:   NewRegistry(),
		logger:     zap.NewNop(),
		opts:       defaultSettings(),
		converters: make(map[converterKey]converter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Registry returns the configuration registry.
func (m *Mapper) Registry() *Registry { return m.registry }

// Logger returns the logger of the mapper.
func (m *Mapper) Logger() *zap.Logger { return m.logger }

// Ready reports whether Initialize completed.
func (m *Mapper) Ready() bool { return m.ready.Load() }

// Configuration returns the configuration registered under key.
func (m *Mapper) Configuration(key Key) (*Configuration, bool) {
	return m.registry.Lookup(key)
}

// configure returns the configuration of key, creating an explicit one when
// none exists. An implicit configuration is promoted.
func (m *Mapper) configure(key Key) *Configuration {
	cfg, created := m.registry.GetOrCreate(key, func() *Configuration {
		return newConfiguration(m, key, false)
	})

	if created {
		m.logger.Debug("configuration created", zap.Stringer("pair", key))
		m.metrics.SetConfigurations(m.registry.Len())
	} else {
		cfg.markExplicit()
	}

	return cfg
}

// implicit returns the configuration of key, registering an implicit one
// when none exists. The new configuration is not built.
func (m *Mapper) implicit(key Key) *Configuration {
	cfg, created := m.registry.GetOrCreate(key, func() *Configuration {
		return newConfiguration(m, key, true)
	})

	if created {
		m.logger.Debug("implicit configuration created", zap.Stringer("pair", key))
		m.metrics.SetConfigurations(m.registry.Len())
	}

	return cfg
}

// resolver bridges reference shapes during default matching by registering
// implicit sub-configurations.
type resolver struct{ m *Mapper }

func (r resolver) ResolveSubMap(source, dest reflect.Type) bool {
	if len(shape.Of(dest).Writable()) == 0 {
		return false
	}

	r.m.implicit(NewKey(source, dest, ""))

	return true
}

func (r resolver) HasConverter(source, dest reflect.Type) bool {
	if _, ok := r.m.lookupConverter(source, dest); ok {
		return true
	}

	if source.Kind() == reflect.Ptr {
		_, ok := r.m.lookupConverter(source.Elem(), dest)
		return ok
	}

	return false
}

// Initialize builds the lambda of every configuration, including the
// sub-configurations created while building, and marks the mapper ready.
// All build errors are returned joined; the mapper is marked ready anyway
// so that unaffected pairs can be used.
func (m *Mapper) Initialize() error {
	var errs []error

	built := make(map[*Configuration]struct{})

	for {
		pending := 0

		for _, cfg := range m.registry.All() {
			if _, ok := built[cfg]; ok {
				continue
			}

			built[cfg] = struct{}{}
			pending++

			if _, err := cfg.Lambda(); err != nil {
				errs = append(errs, err)
			}
		}

		if pending == 0 {
			break
		}
	}

	m.ready.Store(true)
	m.metrics.SetConfigurations(m.registry.Len())

	err := errors.Join(errs...)
	m.logger.Info("mapper initialized",
		zap.Int("configurations", m.registry.Len()),
		zap.Int("errors", len(errs)))

	return err
}

// Reset removes every configuration and clears the ready flag. Registered
// converters and the service constructor are kept.
func (m *Mapper) Reset() {
	m.registry.Reset()
	m.ready.Store(false)
	m.metrics.SetConfigurations(0)
	m.logger.Debug("registry reset")
}

// ConstructServicesUsing sets a factory for destination values. It is asked
// for every destination type without a ConstructUsing override and may
// return a value of the type or a pointer to one. A nil value from the
// factory falls back to the zero value.
func (m *Mapper) ConstructServicesUsing(factory func(reflect.Type) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.services = factory
}

func (m *Mapper) serviceConstructor(t reflect.Type) func() (reflect.Value, error) {
	m.mu.RLock()
	factory := m.services
	m.mu.RUnlock()

	if factory == nil {
		return nil
	}

	return func() (reflect.Value, error) {
		v, err := factory(t)
		if err != nil {
			return reflect.Value{}, err
		}

		if v == nil {
			return reflect.Zero(t), nil
		}

		rv := reflect.ValueOf(v)

		switch {
		case rv.Type() == t:
			return rv, nil
		case rv.Type().Kind() == reflect.Ptr && rv.Type().Elem() == t:
			if rv.IsNil() {
				return reflect.Zero(t), nil
			}

			return rv.Elem(), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: service factory returned %s for %s",
				ErrUnsupportedType, rv.Type(), t)
		}
	}
}

// gate returns the configuration of key when the mapper may run it.
func (m *Mapper) gate(key Key) (*Configuration, error) {
	cfg, ok := m.registry.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoMapperFound, key)
	}

	if m.opts.requireInitialize && !m.ready.Load() {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, key)
	}

	return cfg, nil
}

// MapValue maps src, a value or pointer of the source type of key, into a
// new destination value.
func (m *Mapper) MapValue(key Key, src reflect.Value) (reflect.Value, error) {
	cfg, err := m.gate(key)
	if err != nil {
		return reflect.Value{}, err
	}

	return cfg.mapValue(src)
}

// MapValueInto maps src onto dst, an addressable destination value.
func (m *Mapper) MapValueInto(key Key, src, dst reflect.Value) error {
	cfg, err := m.gate(key)
	if err != nil {
		return err
	}

	return cfg.mapInto(src, dst)
}
