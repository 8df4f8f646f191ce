package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"shape-mapper/diagnostic"
	"shape-mapper/internal/shape"
	"shape-mapper/profile"
)

// TypeSet resolves the type names used in profiles.
type TypeSet map[string]reflect.Type

// Types builds a TypeSet from sample values, registering each type under its
// bare name and its package qualified name.
//
//	mapper.Types(Order{}, OrderDTO{}, (*Customer)(nil))
func Types(values ...any) TypeSet {
	ts := make(TypeSet, 2*len(values))

	for _, v := range values {
		if v == nil {
			continue
		}

		ts.Add(reflect.TypeOf(v))
	}

	return ts
}

// Add registers t, or the type it points to, by name.
func (ts TypeSet) Add(t reflect.Type) {
	t = shape.Base(t)
	if t.Name() == "" {
		return
	}

	ts[t.Name()] = t
	ts[t.String()] = t
}

// Lookup resolves name.
func (ts TypeSet) Lookup(name string) (reflect.Type, bool) {
	t, ok := ts[name]
	return t, ok
}

// ApplyProfile registers the configurations described by f. The profile is
// validated first; every problem found while applying is returned joined,
// and mappings that failed are left partially configured.
func ApplyProfile(m *Mapper, f *profile.File, types TypeSet) error {
	if err := f.Validate().Err(); err != nil {
		return err
	}

	var (
		diags diagnostic.Diagnostics
		errs  []error
	)

	for i := range f.Mappings {
		pm := &f.Mappings[i]

		src, ok := types.Lookup(pm.Source)
		if !ok {
			diags.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("type %q is not in the type set", pm.Source), pm.Pair(), pm.Source)
			continue
		}

		dst, ok := types.Lookup(pm.Target)
		if !ok {
			diags.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("type %q is not in the type set", pm.Target), pm.Pair(), pm.Target)
			continue
		}

		if err := applyMapping(m, pm, NewKey(src, dst, pm.Name)); err != nil {
			errs = append(errs, err)
		}
	}

	if err := diags.Err(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func applyMapping(m *Mapper, pm *profile.Mapping, key Key) error {
	cfg := m.configure(key)

	for _, fld := range pm.Bindings() {
		var opts []BindingOption
		if fld.CheckNull != nil {
			opts = append(opts, CheckNull(*fld.CheckNull))
		}

		if fld.Via != "" {
			opts = append(opts, Via(fld.Via))
		}

		if err := cfg.forMember(fld.Target, fld.Source, OriginProfile, opts...); err != nil {
			return err
		}
	}

	if len(pm.Ignore) > 0 {
		if err := cfg.Ignore(pm.Ignore...); err != nil {
			return err
		}
	}

	if pm.Reverse {
		if _, err := m.reverse(cfg, pm.ReverseName); err != nil {
			return err
		}
	}

	m.logger.Debug("profile mapping applied", zap.Stringer("pair", key), zap.Bool("reverse", pm.Reverse))

	return nil
}
