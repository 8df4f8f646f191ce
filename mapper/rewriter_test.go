package mapper_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-mapper/internal/fixtures"
	"shape-mapper/ir"
	"shape-mapper/mapper"
)

func orderMapper(t *testing.T) *mapper.Mapper {
	t.Helper()

	m := mapper.New()
	mapper.CreateMap[fixtures.Order, fixtures.OrderDTO](m)
	require.NoError(t, m.Initialize())

	return m
}

func memberLambda(t *testing.T, typ reflect.Type, name, path string) *ir.Lambda {
	t.Helper()

	p := ir.NewParameter(typ, name)

	body, err := ir.Path(p, path)
	require.NoError(t, err)

	return ir.NewLambda(p, body)
}

func TestShapeRewriter_DestinationKeyOntoSource(t *testing.T) {
	m := orderMapper(t)
	rw := mapper.NewShapeRewriter(m, reflect.TypeFor[fixtures.OrderDTO](), reflect.TypeFor[fixtures.Order](), "")

	out, err := rw.Rewrite(memberLambda(t, reflect.TypeFor[fixtures.OrderDTO](), "d", "CustomerFullName"))
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeFor[fixtures.Order](), out.Param.Type())
	assert.Equal(t, "d.Customer.FullName", out.Body.String())

	fn, err := ir.Compile(out)
	require.NoError(t, err)

	v, err := fn(reflect.ValueOf(fixtures.SampleOrder()))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", v.String())
}

func TestShapeRewriter_SourcePredicateOntoDestination(t *testing.T) {
	m := orderMapper(t)
	rw := mapper.NewShapeRewriter(m, reflect.TypeFor[fixtures.Order](), reflect.TypeFor[fixtures.OrderDTO](), "")

	p := ir.NewParameter(reflect.TypeFor[fixtures.Order](), "o")

	name, err := ir.Path(p, "Customer.FullName")
	require.NoError(t, err)

	isAda, err := ir.Compare(ir.OpEq, name, ir.MustConst("Ada Lovelace"))
	require.NoError(t, err)

	status, err := ir.Field(p, "Status")
	require.NoError(t, err)

	paid, err := ir.Compare(ir.OpEq, status, ir.MustConst(fixtures.StatusPaid))
	require.NoError(t, err)

	id, err := ir.Field(p, "ID")
	require.NoError(t, err)

	large, err := ir.Compare(ir.OpGt, id, ir.MustConst(int64(10)))
	require.NoError(t, err)

	both, err := ir.Logical(ir.OpAnd, isAda, paid)
	require.NoError(t, err)

	all, err := ir.Logical(ir.OpAnd, both, large)
	require.NoError(t, err)

	out, err := rw.Rewrite(ir.NewLambda(p, all))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[fixtures.OrderDTO](), out.Param.Type())

	fn, err := ir.Compile(out)
	require.NoError(t, err)

	for _, tt := range []struct {
		dto  fixtures.OrderDTO
		want bool
	}{
		{fixtures.OrderDTO{ID: 42, CustomerFullName: "Ada Lovelace", Status: "PAID"}, true},
		{fixtures.OrderDTO{ID: 42, CustomerFullName: "Ada Lovelace", Status: "PENDING"}, false},
		{fixtures.OrderDTO{ID: 42, CustomerFullName: "Grace Hopper", Status: "PAID"}, false},
		{fixtures.OrderDTO{ID: 1, CustomerFullName: "Ada Lovelace", Status: "PAID"}, false},
	} {
		v, err := fn(reflect.ValueOf(tt.dto))
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.Bool(), "%+v", tt.dto)
	}

	ir.Walk(out.Body, func(n ir.Node) bool {
		assert.NotEqual(t, ir.KindConditional, n.Kind(), "rewrites add no guards")
		return true
	})
}

func TestShapeRewriter_Errors(t *testing.T) {
	m := orderMapper(t)

	t.Run("member not mapped", func(t *testing.T) {
		rw := mapper.NewShapeRewriter(m, reflect.TypeFor[fixtures.OrderDTO](), reflect.TypeFor[fixtures.Order](), "")

		_, err := rw.Rewrite(memberLambda(t, reflect.TypeFor[fixtures.OrderDTO](), "d", "Internal"))
		require.ErrorIs(t, err, mapper.ErrMemberNotMapped)
	})

	t.Run("no configuration", func(t *testing.T) {
		rw := mapper.NewShapeRewriter(m, reflect.TypeFor[person](), reflect.TypeFor[personDTO](), "")

		_, err := rw.Rewrite(memberLambda(t, reflect.TypeFor[person](), "p", "Name"))
		require.ErrorIs(t, err, mapper.ErrNoMapperFound)
	})

	t.Run("wrong parameter", func(t *testing.T) {
		rw := mapper.NewShapeRewriter(m, reflect.TypeFor[fixtures.OrderDTO](), reflect.TypeFor[fixtures.Order](), "")

		_, err := rw.Rewrite(memberLambda(t, reflect.TypeFor[person](), "p", "Name"))
		require.ErrorIs(t, err, ir.ErrTypeMismatch)
	})
}
