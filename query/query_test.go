package query_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-mapper/ir"
	"shape-mapper/query"
)

type task struct {
	Title    string
	Priority int
	Owner    *string
}

func tasks() []task {
	ada, bob := "ada", "bob"

	return []task{
		{Title: "write", Priority: 2, Owner: &ada},
		{Title: "review", Priority: 1, Owner: &bob},
		{Title: "ship", Priority: 2},
		{Title: "plan", Priority: 3, Owner: &ada},
	}
}

func titles(ts []task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}

	return out
}

func member[T any](t *testing.T, path string) *ir.Lambda {
	t.Helper()

	l, err := query.Member[T](path)
	require.NoError(t, err)

	return l
}

func priorityAtLeast(t *testing.T, n int) *ir.Lambda {
	t.Helper()

	key := member[task](t, "Priority")

	body, err := ir.Compare(ir.OpGe, key.Body, ir.MustConst(n))
	require.NoError(t, err)

	return ir.NewLambda(key.Param, body)
}

func TestQueryable_Where(t *testing.T) {
	q, err := query.From(tasks()).Where(priorityAtLeast(t, 2))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"write", "ship", "plan"}, titles(got))
}

func TestQueryable_OrderByThenBy(t *testing.T) {
	q, err := query.From(tasks()).OrderByDescending(member[task](t, "Priority"))
	require.NoError(t, err)

	q, err = q.ThenBy(member[task](t, "Title"))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"plan", "ship", "write", "review"}, titles(got))
}

func TestQueryable_OrderByIsStable(t *testing.T) {
	q, err := query.From(tasks()).OrderBy(member[task](t, "Priority"))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"review", "write", "ship", "plan"}, titles(got))
}

func TestQueryable_LaterOrderByWins(t *testing.T) {
	q, err := query.From(tasks()).OrderBy(member[task](t, "Title"))
	require.NoError(t, err)

	q, err = q.Where(priorityAtLeast(t, 1))
	require.NoError(t, err)

	q, err = q.OrderBy(member[task](t, "Priority"))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"review", "ship", "write", "plan"}, titles(got))
}

func TestQueryable_NilPointerKeysSortFirst(t *testing.T) {
	q, err := query.From(tasks()).OrderBy(member[task](t, "Owner"))
	require.NoError(t, err)

	q, err = q.ThenBy(member[task](t, "Title"))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ship", "plan", "write", "review"}, titles(got))
}

func TestSelect(t *testing.T) {
	q, err := query.Select[task, string](query.From(tasks()), member[task](t, "Title"))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"write", "review", "ship", "plan"}, got)

	_, err = query.Select[task, int](query.From(tasks()), member[task](t, "Title"))
	require.ErrorIs(t, err, query.ErrInvalidStage)
}

func TestQueryable_PointerElements(t *testing.T) {
	items := []*task{{Title: "b", Priority: 2}, {Title: "a", Priority: 1}}

	q, err := query.From(items).OrderBy(member[task](t, "Priority"))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Same(t, items[1], got[0])
	assert.Same(t, items[0], got[1])
}

func TestQueryable_Errors(t *testing.T) {
	q := query.From(tasks())

	_, err := q.ThenBy(member[task](t, "Title"))
	require.ErrorIs(t, err, query.ErrUnordered)

	_, err = q.Where(member[task](t, "Title"))
	require.ErrorIs(t, err, query.ErrInvalidStage, "predicate must return bool")

	type other struct{ Title string }

	_, err = q.OrderBy(member[other](t, "Title"))
	require.ErrorIs(t, err, query.ErrInvalidStage)

	_, err = q.Where(nil)
	require.ErrorIs(t, err, query.ErrInvalidStage)

	_, err = query.Member[task]("Missing")
	require.ErrorIs(t, err, ir.ErrUnknownMember)
}

func TestQueryable_Immutable(t *testing.T) {
	base, err := query.From(tasks()).OrderBy(member[task](t, "Priority"))
	require.NoError(t, err)

	a, err := base.ThenBy(member[task](t, "Title"))
	require.NoError(t, err)

	b, err := base.Where(priorityAtLeast(t, 3))
	require.NoError(t, err)

	assert.Len(t, base.Plan().Stages, 1)
	assert.Equal(t, query.StageThenBy, a.Plan().Stages[1].Kind)
	assert.Equal(t, query.StageWhere, b.Plan().Stages[1].Kind)
}

func TestQueryable_RejectsUntranslatableStages(t *testing.T) {
	p := query.NewMemoryProvider(query.WithCapabilities(ir.Capabilities{}))
	q := query.FromProvider(p, tasks())

	key := member[task](t, "Owner")

	guarded, err := ir.Cond(ir.NotNil(key.Body), ir.MustConst(true), ir.MustConst(false))
	require.NoError(t, err)

	_, err = q.OrderBy(ir.NewLambda(key.Param, guarded))
	require.ErrorIs(t, err, ir.ErrUntranslatable)

	_, err = query.From(tasks()).OrderBy(ir.NewLambda(key.Param, guarded))
	require.NoError(t, err)
}

func TestQueryable_Plan(t *testing.T) {
	q, err := query.From(tasks()).Where(priorityAtLeast(t, 2))
	require.NoError(t, err)

	titled, err := query.Select[task, string](q, member[task](t, "Title"))
	require.NoError(t, err)

	plan := titled.Plan()
	require.Len(t, plan.Stages, 2)
	assert.Equal(t, "where(x => (x.Priority >= 2))", plan.Stages[0].String())
	assert.Equal(t, "select(x => x.Title)", plan.Stages[1].String())
	assert.Equal(t, reflect.TypeFor[string](), plan.Elem())
	assert.Equal(t, 4, plan.Source.Len())
}

func TestQueryable_ContextCanceled(t *testing.T) {
	q, err := query.From(tasks()).Where(priorityAtLeast(t, 2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = q.ToSlice(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueryable_Empty(t *testing.T) {
	q, err := query.From[task](nil).OrderBy(member[task](t, "Title"))
	require.NoError(t, err)

	got, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
