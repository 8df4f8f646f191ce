package mapper_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shape-mapper/config"
	"shape-mapper/internal/fixtures"
	"shape-mapper/mapper"
	"shape-mapper/metrics"
	"shape-mapper/primitive"
)

func TestNewFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Mapping.Flattening = false

	m, err := mapper.NewFromConfig(cfg)
	require.NoError(t, err)

	mapper.CreateMap[fixtures.Order, fixtures.OrderDTO](m)
	require.NoError(t, m.Initialize())

	got, err := mapper.Map[fixtures.Order, fixtures.OrderDTO](m, fixtures.SampleOrder())
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Empty(t, got.CustomerFullName, "flattening is disabled")

	cfg.Mapping.Conversions = []string{"magic"}

	_, err = mapper.NewFromConfig(cfg)
	require.Error(t, err)
}

func TestWithConversions(t *testing.T) {
	type in struct{ Count int64 }

	type out struct{ Count string }

	m := mapper.New(mapper.WithConversions(primitive.CategoryDefault | primitive.CategoryTextNumber))
	mapper.CreateMap[in, out](m)
	require.NoError(t, m.Initialize())

	got, err := mapper.Map[in, out](m, in{Count: 12})
	require.NoError(t, err)
	assert.Equal(t, "12", got.Count)
}

func TestWithNormalizedNames(t *testing.T) {
	type in struct{ Customer_ID int }

	type out struct{ CustomerID int }

	for _, enabled := range []bool{true, false} {
		m := mapper.New(mapper.WithNormalizedNames(enabled))
		mapper.CreateMap[in, out](m)
		require.NoError(t, m.Initialize())

		got, err := mapper.Map[in, out](m, in{Customer_ID: 5})
		require.NoError(t, err)

		if enabled {
			assert.Equal(t, 5, got.CustomerID)
		} else {
			assert.Zero(t, got.CustomerID)
		}
	}
}

func TestWithNullSafeDefault(t *testing.T) {
	m := mapper.New(mapper.WithNullSafeDefault(false))
	mapper.CreateMap[root, flat](m)
	require.NoError(t, m.Initialize())

	_, err := mapper.Map[root, flat](m, root{})
	require.Error(t, err, "unguarded default bindings fail on nil links")
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	m := mapper.New(mapper.WithLogger(zap.New(core)))
	require.NoError(t, mapper.CreateMap[person, personDTO](m).ForMember("Name", "Name"))
	require.NoError(t, m.Initialize())

	assert.Equal(t, 1, logs.FilterMessage("configuration created").Len())
	assert.Equal(t, 1, logs.FilterMessage("binding resolved").Len())
	assert.Equal(t, 1, logs.FilterMessage("lambda built").Len())

	init := logs.FilterMessage("mapper initialized").All()
	require.Len(t, init, 1)
	assert.Equal(t, zapcore.InfoLevel, init[0].Level)
	assert.Equal(t, int64(1), init[0].ContextMap()["configurations"])
}

func TestWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	rec, err := metrics.New(reg)
	require.NoError(t, err)

	m := mapper.New(mapper.WithMetrics(rec))
	mapper.CreateMap[person, personDTO](m)
	require.NoError(t, m.Initialize())

	for range 2 {
		_, err := mapper.Map[person, personDTO](m, person{Name: "Ada"})
		require.NoError(t, err)
	}

	expected := `
# HELP shapemap_compilations_total Mapping configurations compiled, by type pair.
# TYPE shapemap_compilations_total counter
shapemap_compilations_total{pair="mapper_test.person -> mapper_test.personDTO"} 1
# HELP shapemap_maps_total Objects mapped, by type pair.
# TYPE shapemap_maps_total counter
shapemap_maps_total{pair="mapper_test.person -> mapper_test.personDTO"} 2
# HELP shapemap_configurations Registered mapping configurations.
# TYPE shapemap_configurations gauge
shapemap_configurations 1
`

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"shapemap_compilations_total", "shapemap_maps_total", "shapemap_configurations"))
}
