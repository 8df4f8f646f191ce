package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-mapper/internal/fixtures"
	"shape-mapper/mapper"
)

type account struct {
	ID      int64
	Owner   string
	Balance float64
	Tags    []string
}

type accountDTO struct {
	ID      int64
	Owner   string
	Balance float64
	Tags    []string
}

func TestReverseMap_Consistency(t *testing.T) {
	m := mapper.New()
	fwd := mapper.CreateMap[account, accountDTO](m)

	rev, err := fwd.ReverseMap()
	require.NoError(t, err)
	require.NoError(t, m.Initialize())

	src := account{ID: 9, Owner: "Ada", Balance: 12.5, Tags: []string{"vip"}}

	dto, err := fwd.Map(src)
	require.NoError(t, err)

	back, err := rev.Map(dto)
	require.NoError(t, err)
	assert.Equal(t, src, back)

	for _, b := range rev.Configuration().Bindings() {
		assert.Equal(t, mapper.OriginReverse, b.Origin, b.Dest)
	}
}

func TestReverseMap_Duplicate(t *testing.T) {
	m := mapper.New()
	fwd := mapper.CreateMap[account, accountDTO](m)

	_, err := fwd.ReverseMap()
	require.NoError(t, err)

	_, err = fwd.ReverseMap()
	require.ErrorIs(t, err, mapper.ErrMapperAlreadyExists)

	_, err = fwd.ReverseMap("named")
	require.NoError(t, err, "a different name is a different key")

	other := mapper.CreateMap[person, personDTO](m)
	mapper.CreateMap[personDTO, person](m)

	_, err = other.ReverseMap()
	require.ErrorIs(t, err, mapper.ErrMapperAlreadyExists)
}

func TestReverseMap_NestedSubMapping(t *testing.T) {
	m := mapper.New()
	fwd := mapper.CreateMap[fixtures.Customer, fixtures.CustomerDTO](m)

	rev, err := fwd.ReverseMap()
	require.NoError(t, err)
	require.NoError(t, m.Initialize())

	sub, ok := m.Configuration(mapper.KeyOf[fixtures.AddressDTO, fixtures.Address]())
	require.True(t, ok, "the reverse of the address sub-mapping is derived")
	assert.True(t, sub.Implicit())

	src := *fixtures.SampleOrder().Customer

	dto, err := fwd.Map(src)
	require.NoError(t, err)

	back, err := rev.Map(dto)
	require.NoError(t, err)
	assert.Equal(t, src, back)
	assert.NotSame(t, src.Address, back.Address)
}

func TestReverseMap_SkipsUninvertibleBindings(t *testing.T) {
	m := mapper.New()
	fwd := mapper.CreateMap[fixtures.Order, fixtures.OrderDTO](m)

	rev, err := fwd.ReverseMap()
	require.NoError(t, err)
	require.NoError(t, m.Initialize())

	_, ok := rev.Configuration().Binding("Customer")
	assert.False(t, ok, "flattened members are not inverted")

	src := fixtures.SampleOrder()

	dto, err := fwd.Map(src)
	require.NoError(t, err)

	back, err := rev.Map(dto)
	require.NoError(t, err)

	assert.Equal(t, src.ID, back.ID)
	assert.Equal(t, fixtures.StatusPaid, back.Status)
	assert.Equal(t, src.TotalCents, back.TotalCents)
	require.NotNil(t, back.Note)
	assert.Equal(t, *src.Note, *back.Note)
	assert.Nil(t, back.Customer)
	require.Len(t, back.Items, 2)
	assert.Equal(t, "Gear", back.Items[0].Name)
	assert.Zero(t, back.Items[0].Quantity, "narrowing is not a default conversion")

	dto.Status = "LOST"

	_, err = rev.Map(dto)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid value")
}
