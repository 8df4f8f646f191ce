package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shape-mapper/diagnostic"
	"shape-mapper/ir"
)

var validate = validator.New()

// Validate checks the profile structure. It does not resolve type names;
// that happens when the profile is applied to a mapper.
func (f *File) Validate() *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeInvalidField, "profile is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError(diagnostic.CodeUnsupported, fmt.Sprintf("unsupported version %q", f.Version), "", "version")
	}

	if err := validate.Struct(f); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			res.AddError(diagnostic.CodeInvalidField, err.Error(), "", "")
			return res
		}

		for _, ve := range valErrs {
			res.AddError(diagnostic.CodeInvalidField,
				fmt.Sprintf("failed on %q", ve.Tag()), "", strings.TrimPrefix(ve.Namespace(), "File."))
		}
	}

	seen := make(map[string]struct{})

	for i := range f.Mappings {
		m := &f.Mappings[i]
		pair := m.Pair()

		if _, ok := seen[pair]; ok {
			res.AddError(diagnostic.CodeDuplicate, "duplicate mapping", pair, "")
		}

		seen[pair] = struct{}{}

		validateMapping(res, m)
	}

	return res
}

func validateMapping(res *diagnostic.Diagnostics, m *Mapping) {
	pair := m.Pair()
	targets := make(map[string]struct{})

	for _, fld := range m.Bindings() {
		if fld.Source != "" {
			if _, err := ir.ParsePath(fld.Source); err != nil {
				res.AddError(diagnostic.CodeInvalidPath, err.Error(), pair, fld.Source)
			}
		}

		if fld.Target == "" {
			continue
		}

		if !isMember(fld.Target) {
			res.AddError(diagnostic.CodeInvalidPath, "target must be a single member", pair, fld.Target)
			continue
		}

		if _, ok := targets[fld.Target]; ok {
			res.AddError(diagnostic.CodeDuplicate, "target is bound more than once", pair, fld.Target)
		}

		targets[fld.Target] = struct{}{}
	}

	for _, ig := range m.Ignore {
		if !isMember(ig) {
			res.AddError(diagnostic.CodeInvalidPath, "ignored target must be a single member", pair, ig)
			continue
		}

		if _, ok := targets[ig]; ok {
			res.AddError(diagnostic.CodeConflict, "target is both bound and ignored", pair, ig)
		}
	}

	if m.ReverseName != "" && !m.Reverse {
		res.AddWarning(diagnostic.CodeInvalidField, "reverse_name has no effect without reverse", pair, "reverse_name")
	}
}

func isMember(s string) bool {
	segments, err := ir.ParsePath(s)
	return err == nil && len(segments) == 1
}
