package query

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"shape-mapper/internal/shape"
	"shape-mapper/ir"
)

// Queryable is a deferred sequence of T. It is immutable: every operation
// returns a new Queryable sharing nothing mutable with the receiver.
type Queryable[T any] struct {
	provider Provider
	source   reflect.Value
	stages   []Stage
}

// From returns a query over items executed in memory.
func From[T any](items []T) Queryable[T] {
	return FromProvider(NewMemoryProvider(), items)
}

// FromProvider returns a query over items executed by p.
func FromProvider[T any](p Provider, items []T) Queryable[T] {
	if items == nil {
		items = []T{}
	}

	return Queryable[T]{provider: p, source: reflect.ValueOf(items)}
}

// Provider returns the provider that executes q.
func (q Queryable[T]) Provider() Provider { return q.provider }

// Plan returns the source and the recorded stages.
func (q Queryable[T]) Plan() Plan {
	return Plan{Source: q.source, Stages: slices.Clone(q.stages)}
}

// Where filters by pred, a lambda from T to bool.
func (q Queryable[T]) Where(pred *ir.Lambda) (Queryable[T], error) {
	if err := checkLambda(pred, reflect.TypeFor[T]()); err != nil {
		return q, err
	}

	if pred.Type().Kind() != reflect.Bool {
		return q, fmt.Errorf("%w: predicate %s returns %s", ErrInvalidStage, pred, pred.Type())
	}

	return q.push(Stage{Kind: StageWhere, Lambda: pred})
}

// OrderBy sorts by key, replacing any earlier ordering.
func (q Queryable[T]) OrderBy(key *ir.Lambda) (Queryable[T], error) {
	return q.order(StageOrderBy, false, key)
}

// OrderByDescending sorts by key in descending order.
func (q Queryable[T]) OrderByDescending(key *ir.Lambda) (Queryable[T], error) {
	return q.order(StageOrderBy, true, key)
}

// ThenBy adds a secondary sort key to the preceding ordering.
func (q Queryable[T]) ThenBy(key *ir.Lambda) (Queryable[T], error) {
	return q.order(StageThenBy, false, key)
}

// ThenByDescending adds a descending secondary sort key.
func (q Queryable[T]) ThenByDescending(key *ir.Lambda) (Queryable[T], error) {
	return q.order(StageThenBy, true, key)
}

func (q Queryable[T]) order(kind StageKind, desc bool, key *ir.Lambda) (Queryable[T], error) {
	if err := checkLambda(key, reflect.TypeFor[T]()); err != nil {
		return q, err
	}

	if kind == StageThenBy && !q.ordered() {
		return q, ErrUnordered
	}

	return q.push(Stage{Kind: kind, Descending: desc, Lambda: key})
}

func (q Queryable[T]) ordered() bool {
	if len(q.stages) == 0 {
		return false
	}

	k := q.stages[len(q.stages)-1].Kind

	return k == StageOrderBy || k == StageThenBy
}

// ToSlice executes the query.
func (q Queryable[T]) ToSlice(ctx context.Context) ([]T, error) {
	out, err := q.provider.Execute(ctx, q.Plan())
	if err != nil {
		return nil, err
	}

	items, ok := out.Interface().([]T)
	if !ok {
		return nil, fmt.Errorf("%w: provider returned %s, want %s", ir.ErrTypeMismatch, out.Type(), reflect.TypeFor[[]T]())
	}

	return items, nil
}

func (q Queryable[T]) push(s Stage) (Queryable[T], error) {
	if err := ir.Translatable(s.Lambda.Body, q.provider.Capabilities()); err != nil {
		return q, fmt.Errorf("%s: %w", s.Kind, err)
	}

	stages := make([]Stage, len(q.stages), len(q.stages)+1)
	copy(stages, q.stages)

	return Queryable[T]{provider: q.provider, source: q.source, stages: append(stages, s)}, nil
}

// Select projects every element through sel, a lambda from T to U.
func Select[T, U any](q Queryable[T], sel *ir.Lambda) (Queryable[U], error) {
	var zero Queryable[U]

	if err := checkLambda(sel, reflect.TypeFor[T]()); err != nil {
		return zero, err
	}

	if want := reflect.TypeFor[U](); sel.Type() != want {
		return zero, fmt.Errorf("%w: selector %s returns %s, want %s", ErrInvalidStage, sel, sel.Type(), want)
	}

	next, err := q.push(Stage{Kind: StageSelect, Lambda: sel})
	if err != nil {
		return zero, err
	}

	return Queryable[U]{provider: next.provider, source: next.source, stages: next.stages}, nil
}

// Member returns the lambda x => x.path over T.
func Member[T any](path string) (*ir.Lambda, error) {
	p := ir.NewParameter(shape.Base(reflect.TypeFor[T]()), "x")

	body, err := ir.Path(p, path)
	if err != nil {
		return nil, err
	}

	return ir.NewLambda(p, body), nil
}

// checkLambda accepts lambdas over elem, or over the type elem points to.
func checkLambda(l *ir.Lambda, elem reflect.Type) error {
	if l == nil {
		return fmt.Errorf("%w: nil lambda", ErrInvalidStage)
	}

	if pt := l.Param.Type(); pt != elem && shape.Base(elem) != pt {
		return fmt.Errorf("%w: lambda %s takes %s, query yields %s", ErrInvalidStage, l, pt, elem)
	}

	return nil
}
