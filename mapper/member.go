package mapper

import (
	"fmt"

	"go.uber.org/zap"

	"shape-mapper/internal/shape"
	"shape-mapper/ir"
)

// ForMember binds the destination member dest to a dotted source member
// path. See TypeMap.ForMember.
func (c *Configuration) ForMember(dest, sourcePath string, opts ...BindingOption) error {
	return c.forMember(dest, sourcePath, OriginExplicit, opts...)
}

func (c *Configuration) forMember(dest, sourcePath string, origin Origin, opts ...BindingOption) error {
	f, err := c.destField(dest)
	if err != nil {
		return err
	}

	segments, err := ir.ParsePath(sourcePath)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", c.key, dest, err)
	}

	b := Binding{
		Dest:      f.Name,
		Path:      segments,
		CheckNull: c.m.opts.nullSafe,
		Origin:    origin,
	}

	for _, opt := range opts {
		opt(&b)
	}

	if b.Value, err = c.m.bindPath(c.param, segments, f.Type, b.Via); err != nil {
		return fmt.Errorf("%s.%s: %w", c.key, dest, err)
	}

	return c.bind(b)
}

// ForMemberExpr binds dest to an expression built over the source
// parameter. See TypeMap.ForMemberExpr.
func (c *Configuration) ForMemberExpr(dest string, build func(src *ir.Parameter) (ir.Node, error), opts ...BindingOption) error {
	f, err := c.destField(dest)
	if err != nil {
		return err
	}

	n, err := build(c.param)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", c.key, dest, err)
	}

	b := Binding{Dest: f.Name, Origin: OriginExplicit}

	for _, opt := range opts {
		opt(&b)
	}

	b.CheckNull = false

	if path, ok := ir.MemberPath(n, c.param); ok {
		b.Path = path
	}

	if b.Value, err = c.m.adapt(n, f.Type, b.Via); err != nil {
		return fmt.Errorf("%s.%s: %w", c.key, dest, err)
	}

	return c.bind(b)
}

// Ignore excludes destination members from default matching and removes
// their bindings. Ignoring a member twice has no further effect.
func (c *Configuration) Ignore(names ...string) error {
	dest := shape.Of(c.key.Dest)

	for _, name := range names {
		if _, ok := dest.Field(name); !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownMember, c.key.Dest, name)
		}
	}

	return c.mutate(func() error {
		for _, name := range names {
			delete(c.bindings, name)
			c.ignored[name] = struct{}{}
		}

		return nil
	})
}

func (c *Configuration) destField(dest string) (shape.Field, error) {
	if c.Built() {
		return shape.Field{}, fmt.Errorf("%w: %s", ErrConfigurationSealed, c.key)
	}

	f, ok := shape.Of(c.key.Dest).Field(dest)
	if !ok {
		return shape.Field{}, fmt.Errorf("%w: %s.%s", ErrUnknownMember, c.key.Dest, dest)
	}

	if !f.Writable {
		return shape.Field{}, fmt.Errorf("%w: %s.%s", ErrReadOnlyProperty, c.key.Dest, dest)
	}

	return f, nil
}

func (c *Configuration) bind(b Binding) error {
	if err := c.setBinding(b); err != nil {
		return err
	}

	c.m.logger.Debug("binding resolved",
		zap.Stringer("pair", c.key),
		zap.String("member", b.Dest),
		zap.Stringer("value", b.Value),
		zap.Stringer("origin", b.Origin))

	return nil
}
