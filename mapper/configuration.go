package mapper

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"shape-mapper/internal/match"
	"shape-mapper/internal/shape"
	"shape-mapper/ir"
)

// State is the lifecycle stage of a configuration.
type State int

const (
	StateCreated     State = iota // registered, untouched
	StateConfiguring              // bindings, ignores or hooks were added
	StateCompiled                 // lambda built, bindings are final
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfiguring:
		return "configuring"
	case StateCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

type hook func(src, dst reflect.Value) error

// Configuration maps one source shape to one destination shape. Use the
// typed TypeMap wrapper to configure it.
type Configuration struct {
	key   Key
	m     *Mapper
	param *ir.Parameter

	mu       sync.Mutex
	implicit bool
	state    State
	bindings map[string]*Binding
	ignored  map[string]struct{}
	hooks    []hook
	ctor     func() (reflect.Value, error)

	lambdaOnce sync.Once
	lambda     *ir.Lambda
	projection *ir.Lambda
	lambdaErr  error

	compileOnce sync.Once
	fn          ir.Func
	into        ir.IntoFunc
	compileErr  error
}

func newConfiguration(m *Mapper, key Key, implicit bool) *Configuration {
	return &Configuration{
		key:      key,
		m:        m,
		param:    ir.NewParameter(key.Source, "src"),
		implicit: implicit,
		bindings: make(map[string]*Binding),
		ignored:  make(map[string]struct{}),
	}
}

// Key returns the key of the configuration.
func (c *Configuration) Key() Key { return c.key }

// Param returns the source parameter every binding is rooted at.
func (c *Configuration) Param() *ir.Parameter { return c.param }

// Implicit reports whether the configuration was created by default
// matching rather than by the caller.
func (c *Configuration) Implicit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.implicit
}

// State returns the lifecycle stage.
func (c *Configuration) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Bindings returns the current bindings in destination member order.
// Default bindings appear once the lambda is built.
func (c *Configuration) Bindings() []Binding {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Binding, 0, len(c.bindings))

	for _, f := range shape.Of(c.key.Dest).Fields {
		if b, ok := c.bindings[f.Name]; ok {
			out = append(out, *b)
		}
	}

	return out
}

// Binding returns the binding of a destination member.
func (c *Configuration) Binding(dest string) (Binding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.bindings[dest]
	if !ok {
		return Binding{}, false
	}

	return *b, true
}

// Ignored returns the ignored destination members, sorted.
func (c *Configuration) Ignored() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Sorted(maps.Keys(c.ignored))
}

func (c *Configuration) markExplicit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.implicit = false
}

// mutate runs fn under the lock unless the configuration is sealed.
func (c *Configuration) mutate(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateCompiled {
		return fmt.Errorf("%w: %s", ErrConfigurationSealed, c.key)
	}

	if err := fn(); err != nil {
		return err
	}

	c.state = StateConfiguring

	return nil
}

func (c *Configuration) setBinding(b Binding) error {
	return c.mutate(func() error {
		delete(c.ignored, b.Dest)
		c.bindings[b.Dest] = &b

		return nil
	})
}

func (c *Configuration) addHook(h hook) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hooks = append(c.hooks, h)

	if c.state == StateCreated {
		c.state = StateConfiguring
	}
}

func (c *Configuration) setConstructor(ctor func() (reflect.Value, error)) error {
	return c.mutate(func() error {
		c.ctor = ctor
		return nil
	})
}

// Lambda returns the guarded mapping lambda. The first call runs default
// matching for members that are neither bound nor ignored and seals the
// configuration.
func (c *Configuration) Lambda() (*ir.Lambda, error) {
	c.build()
	return c.lambda, c.lambdaErr
}

// ProjectionLambda returns the mapping lambda without null guards, for
// query providers that cannot translate conditionals.
func (c *Configuration) ProjectionLambda() (*ir.Lambda, error) {
	c.build()
	return c.projection, c.lambdaErr
}

// Built reports whether the lambda was built.
func (c *Configuration) Built() bool {
	return c.State() == StateCompiled
}

func (c *Configuration) build() {
	c.lambdaOnce.Do(func() {
		c.lambda, c.projection, c.lambdaErr = c.buildLambda()

		if c.lambdaErr != nil {
			c.m.logger.Debug("lambda build failed", zap.Stringer("pair", c.key), zap.Error(c.lambdaErr))
			return
		}

		c.m.logger.Debug("lambda built", zap.Stringer("pair", c.key), zap.Stringer("lambda", c.lambda))
	})
}

func (c *Configuration) buildLambda() (guarded, raw *ir.Lambda, err error) {
	c.mu.Lock()
	c.state = StateCompiled
	bindings := maps.Clone(c.bindings)
	ignored := maps.Clone(c.ignored)
	c.mu.Unlock()

	dest := shape.Of(c.key.Dest)
	if dest.Kind != shape.KindStruct || len(dest.Writable()) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no writable members", ErrUnsupportedType, c.key.Dest)
	}

	skip := func(name string) bool {
		_, bound := bindings[name]
		_, skipped := ignored[name]

		return bound || skipped
	}

	for _, p := range match.Match(c.key.Source, c.key.Dest, c.m.opts.match, skip, resolver{c.m}) {
		value, err := c.m.bindPath(c.param, p.Path, p.Dest.Type, "")
		if err != nil {
			c.m.logger.Debug("default binding skipped",
				zap.Stringer("pair", c.key), zap.String("member", p.Dest.Name), zap.Error(err))

			continue
		}

		origin := OriginDefault
		if p.Strategy == match.StrategyFlattened {
			origin = OriginFlattened
		}

		bindings[p.Dest.Name] = &Binding{
			Dest:      p.Dest.Name,
			Path:      p.Path,
			Value:     value,
			CheckNull: c.m.opts.nullSafe,
			Origin:    origin,
		}
	}

	c.mu.Lock()
	c.bindings = bindings
	c.mu.Unlock()

	var guardedInits, rawInits []ir.MemberInit

	for _, f := range dest.Fields {
		b, ok := bindings[f.Name]
		if !ok {
			continue
		}

		value := b.Value
		if b.CheckNull {
			if value, err = ir.NullSafe(value); err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", c.key, f.Name, err)
			}
		}

		guardedInits = append(guardedInits, ir.MemberInit{Field: f.Name, Value: value})
		rawInits = append(rawInits, ir.MemberInit{Field: f.Name, Value: b.Value})
	}

	g, err := ir.NewConstruct(c.key.Dest, guardedInits)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", c.key, err)
	}

	r, err := ir.NewConstruct(c.key.Dest, rawInits)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", c.key, err)
	}

	return ir.NewLambda(c.param, g), ir.NewLambda(c.param, r), nil
}

func (c *Configuration) compile() error {
	c.compileOnce.Do(func() {
		l, err := c.Lambda()
		if err == nil {
			c.fn, err = ir.Compile(l)
		}

		if err == nil {
			c.into, err = ir.CompileInto(l)
		}

		c.compileErr = err
		c.m.metrics.ObserveCompile(c.key.String(), err)

		if err != nil {
			c.m.logger.Debug("compile failed", zap.Stringer("pair", c.key), zap.Error(err))
			return
		}

		c.m.logger.Debug("compiled", zap.Stringer("pair", c.key))
	})

	return c.compileErr
}

// InputType implements ir.Invocable.
func (c *Configuration) InputType() reflect.Type { return c.key.Source }

// OutputType implements ir.Invocable.
func (c *Configuration) OutputType() reflect.Type { return c.key.Dest }

func (c *Configuration) String() string { return c.key.String() }

// Compiled implements ir.CompiledInvocable. The function runs the
// constructor override and after-map hooks like Map does.
func (c *Configuration) Compiled() (ir.Func, error) {
	if err := c.compile(); err != nil {
		return nil, err
	}

	return c.mapValue, nil
}

// mapValue maps src into a new destination value. A nil source pointer
// yields the zero destination without running the converter.
func (c *Configuration) mapValue(src reflect.Value) (reflect.Value, error) {
	if err := c.compile(); err != nil {
		return reflect.Value{}, err
	}

	if isNil(src) {
		return reflect.Zero(c.key.Dest), nil
	}

	start := time.Now()
	out, err := c.construct()

	if err == nil {
		if out.IsValid() {
			err = c.into(src, out)
		} else {
			var v reflect.Value
			if v, err = c.fn(src); err == nil {
				out = reflect.New(c.key.Dest).Elem()
				out.Set(v)
			}
		}
	}

	if err == nil {
		err = c.runHooks(src, out)
	}

	c.m.metrics.ObserveMap(c.key.String(), time.Since(start), err)

	if !out.IsValid() {
		out = reflect.Zero(c.key.Dest)
	}

	return out, err
}

// mapInto assigns the bound members of src onto dst, an addressable
// destination value.
func (c *Configuration) mapInto(src, dst reflect.Value) error {
	if err := c.compile(); err != nil {
		return err
	}

	if isNil(src) {
		return nil
	}

	start := time.Now()

	err := c.into(src, dst)
	if err == nil {
		err = c.runHooks(src, dst)
	}

	c.m.metrics.ObserveMap(c.key.String(), time.Since(start), err)

	return err
}

// construct returns an addressable destination from the constructor
// override or the service factory, or an invalid value when neither is set.
func (c *Configuration) construct() (reflect.Value, error) {
	c.mu.Lock()
	ctor := c.ctor
	c.mu.Unlock()

	if ctor == nil {
		ctor = c.m.serviceConstructor(c.key.Dest)
	}

	if ctor == nil {
		return reflect.Value{}, nil
	}

	v, err := ctor()
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%s: construct: %w", c.key, err)
	}

	out := reflect.New(c.key.Dest).Elem()
	out.Set(v)

	return out, nil
}

func (c *Configuration) runHooks(src, dst reflect.Value) error {
	c.mu.Lock()
	hooks := slices.Clone(c.hooks)
	c.mu.Unlock()

	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}

	for _, h := range hooks {
		if err := h(src, dst.Addr()); err != nil {
			c.m.metrics.ObserveHookError(c.key.String())
			return fmt.Errorf("%s: after map: %w", c.key, err)
		}
	}

	return nil
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
