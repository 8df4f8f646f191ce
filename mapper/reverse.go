package mapper

import (
	"fmt"

	"go.uber.org/zap"

	"shape-mapper/internal/shape"
	"shape-mapper/ir"
)

// reverse registers the configuration of the opposite direction of fwd and
// derives its bindings. It fails when the reversed key is taken.
func (m *Mapper) reverse(fwd *Configuration, name string) (*Configuration, error) {
	key := fwd.key.Reverse(name)

	if _, ok := m.registry.Lookup(key); ok {
		return nil, fmt.Errorf("%w: %s", ErrMapperAlreadyExists, key)
	}

	rev, err := m.derive(fwd, key, false)
	if err != nil {
		return nil, err
	}

	return rev, nil
}

// derive builds the forward lambda, registers the configuration under key
// and inverts the bindings of fwd into it.
func (m *Mapper) derive(fwd *Configuration, key Key, implicit bool) (*Configuration, error) {
	if _, err := fwd.Lambda(); err != nil {
		return nil, fmt.Errorf("reverse of %s: %w", fwd.key, err)
	}

	rev := newConfiguration(m, key, implicit)
	if err := m.registry.Register(rev); err != nil {
		return nil, err
	}

	m.metrics.SetConfigurations(m.registry.Len())

	source := shape.Of(fwd.key.Source)
	derived := 0

	for _, b := range fwd.Bindings() {
		member, sub, ok := reversible(b, fwd.param)
		if !ok {
			m.logger.Debug("binding not reversible",
				zap.Stringer("pair", fwd.key), zap.String("member", b.Dest), zap.Stringer("value", b.Value))

			continue
		}

		target, ok := source.Field(member)
		if !ok || !target.Writable {
			continue
		}

		via := ""

		if sub != nil {
			subRev, err := m.reverseOf(sub)
			if err != nil {
				m.logger.Debug("sub-mapping not reversible",
					zap.Stringer("pair", fwd.key), zap.String("member", b.Dest), zap.Error(err))

				continue
			}

			via = subRev.key.Name
		}

		value, err := m.bindPath(rev.param, []string{b.Dest}, target.Type, via)
		if err != nil {
			m.logger.Debug("reverse binding skipped",
				zap.Stringer("pair", key), zap.String("member", member), zap.Error(err))

			continue
		}

		err = rev.setBinding(Binding{
			Dest:      member,
			Path:      []string{b.Dest},
			Value:     value,
			CheckNull: m.opts.nullSafe,
			Via:       via,
			Origin:    OriginReverse,
		})
		if err != nil {
			return nil, err
		}

		derived++
	}

	m.logger.Debug("reverse derived",
		zap.Stringer("pair", key), zap.Stringer("from", fwd.key), zap.Int("bindings", derived))

	return rev, nil
}

// reverseOf returns the reverse of a sub-configuration under the same name,
// deriving it when missing. A configuration being derived is reused, which
// ends the recursion for self-referencing shapes.
func (m *Mapper) reverseOf(sub *Configuration) (*Configuration, error) {
	key := sub.key.Reverse(sub.key.Name)

	if cfg, ok := m.registry.Lookup(key); ok {
		return cfg, nil
	}

	return m.derive(sub, key, true)
}

// reversible reports the source member a binding reads and, when the value
// passes through a sub-mapping, the sub-configuration used.
func reversible(b Binding, param *ir.Parameter) (member string, sub *Configuration, ok bool) {
	switch v := b.Value.(type) {
	case *ir.Invoke:
		sub, _ = v.Target.(*Configuration)
		member, ok = rootMember(v.Arg, param)

		return member, sub, ok && sub != nil

	case *ir.MapElements:
		ir.Walk(v.Elem.Body, func(n ir.Node) bool {
			if inv, isInvoke := n.(*ir.Invoke); isInvoke {
				sub, _ = inv.Target.(*Configuration)
				return false
			}

			return sub == nil
		})

		member, ok = rootMember(v.Source, param)

		return member, sub, ok

	default:
		member, ok = rootMember(b.Value, param)
		return member, nil, ok
	}
}

// rootMember unwraps conversions and converter calls around a single member
// access on param.
func rootMember(n ir.Node, param *ir.Parameter) (string, bool) {
	for {
		switch v := n.(type) {
		case *ir.Convert:
			n = v.Operand
		case *ir.Call:
			n = v.Arg
		case *ir.Member:
			if p, ok := v.Object.(*ir.Parameter); ok && p == param {
				return v.Name, true
			}

			return "", false
		default:
			return "", false
		}
	}
}
