package query

import (
	"fmt"
	"reflect"

	"shape-mapper/internal/shape"
	"shape-mapper/ir"
	"shape-mapper/mapper"
)

// ProjectTo appends a select stage mapping every S to a D with the registered
// configuration. The mapping lambda is inlined as IR; it carries null
// guards only when the provider translates conditionals. When S and D are
// the same type q is returned unchanged and no configuration is looked up.
func ProjectTo[S, D any](m *mapper.Mapper, q Queryable[S], name ...string) (Queryable[D], error) {
	if same, ok := any(q).(Queryable[D]); ok {
		return same, nil
	}

	var zero Queryable[D]

	tm, err := mapper.GetMapper[S, D](m, name...)
	if err != nil {
		return zero, err
	}

	var l *ir.Lambda
	if q.provider.Capabilities().Conditionals {
		l, err = tm.LambdaExpression()
	} else {
		l, err = tm.ProjectionLambda()
	}

	if err != nil {
		return zero, err
	}

	return Select[S, D](q, l)
}

// OrderByMember sorts a query of S by the value the S to D configuration
// assigns to the destination member.
func OrderByMember[S, D any](m *mapper.Mapper, q Queryable[S], member string, name ...string) (Queryable[S], error) {
	return orderByMember[S, D](m, q, StageOrderBy, false, member, name)
}

// OrderByMemberDescending is OrderByMember in descending order.
func OrderByMemberDescending[S, D any](m *mapper.Mapper, q Queryable[S], member string, name ...string) (Queryable[S], error) {
	return orderByMember[S, D](m, q, StageOrderBy, true, member, name)
}

// ThenByMember adds a secondary sort key named by a destination member.
func ThenByMember[S, D any](m *mapper.Mapper, q Queryable[S], member string, name ...string) (Queryable[S], error) {
	return orderByMember[S, D](m, q, StageThenBy, false, member, name)
}

// ThenByMemberDescending adds a descending secondary sort key named by a
// destination member.
func ThenByMemberDescending[S, D any](m *mapper.Mapper, q Queryable[S], member string, name ...string) (Queryable[S], error) {
	return orderByMember[S, D](m, q, StageThenBy, true, member, name)
}

func orderByMember[S, D any](m *mapper.Mapper, q Queryable[S], kind StageKind, desc bool, member string, name []string) (Queryable[S], error) {
	dest := shape.Base(reflect.TypeFor[D]())
	if _, ok := shape.Of(dest).Field(member); !ok {
		return q, fmt.Errorf("%w: %s.%s", mapper.ErrUnknownMember, dest, member)
	}

	key, err := Member[D](member)
	if err != nil {
		return q, err
	}

	key, err = rewrite(m, key, dest, reflect.TypeFor[S](), name)
	if err != nil {
		return q, err
	}

	if q.provider.Capabilities().Conditionals {
		body, err := ir.NullSafe(key.Body)
		if err != nil {
			return q, err
		}

		key = ir.NewLambda(key.Param, body)
	}

	return q.order(kind, desc, key)
}

// WhereTo filters a query of D with pred, a predicate written against S,
// moved onto D through the S to D configuration.
func WhereTo[S, D any](m *mapper.Mapper, q Queryable[D], pred *ir.Lambda, name ...string) (Queryable[D], error) {
	if err := checkLambda(pred, reflect.TypeFor[S]()); err != nil {
		return q, err
	}

	out, err := rewrite(m, pred, reflect.TypeFor[S](), reflect.TypeFor[D](), name)
	if err != nil {
		return q, err
	}

	return q.Where(out)
}

func rewrite(m *mapper.Mapper, l *ir.Lambda, from, to reflect.Type, name []string) (*ir.Lambda, error) {
	var n string
	if len(name) > 0 {
		n = name[0]
	}

	out, err := mapper.NewShapeRewriter(m, from, to, n).Rewrite(l)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s onto %s: %w", l, shape.Base(to), err)
	}

	return out, nil
}
