package node

import (
	"context"
	"errors"
	"testing"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func echoDefinition(id string) Definition {
	return Definition{
		ID:   id,
		Name: "Echo",
		Execute: func(ctx context.Context, exec *Execution) ([]Result, error) {
			return Each(ctx, exec.Items, !exec.ContinueOnFail, func(_ context.Context, _ int, item Item) (any, error) {
				if item.JSON.Has("fail") {
					return nil, Validation(errors.New("asked to fail"), nil)
				}
				return item.JSON, nil
			})
		},
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return logger.ContextWithLogger(t.Context(), logger.NewLogger(logger.TestConfig()))
}

func TestRegistry_Register(t *testing.T) {
	t.Run("Should reject duplicates", func(t *testing.T) {
		reg := NewRegistry(nil)
		require.NoError(t, reg.Register(echoDefinition("demo.echo")))

		err := reg.Register(echoDefinition("demo.echo"))

		assert.ErrorIs(t, err, ErrDuplicateNode)
	})

	t.Run("Should reject definitions without id or execute", func(t *testing.T) {
		reg := NewRegistry(nil)

		assert.ErrorIs(t, reg.Register(Definition{ID: " "}), ErrInvalidDefinition)
		assert.ErrorIs(t, reg.Register(Definition{ID: "demo.none"}), ErrInvalidDefinition)
	})

	t.Run("Should list definitions sorted by id", func(t *testing.T) {
		reg := NewRegistry(nil)
		require.NoError(t, reg.Register(echoDefinition("b.node")))
		require.NoError(t, reg.Register(echoDefinition("a.node")))

		defs := reg.List()

		require.Len(t, defs, 2)
		assert.Equal(t, "a.node", defs[0].ID)
		assert.Equal(t, "b.node", defs[1].ID)
	})
}

func TestRegistry_Run(t *testing.T) {
	t.Run("Should report unknown node", func(t *testing.T) {
		_, err := NewRegistry(nil).Run(testContext(t), "missing", nil)

		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("Should attach run id to context", func(t *testing.T) {
		reg := NewRegistry(nil)
		var runID string
		require.NoError(t, reg.Register(Definition{
			ID: "demo.ctx",
			Execute: func(ctx context.Context, _ *Execution) ([]Result, error) {
				id, err := core.GetRequestID(ctx)
				require.NoError(t, err)
				runID = id
				return nil, nil
			},
		}))

		_, err := reg.Run(testContext(t), "demo.ctx", &Execution{})

		require.NoError(t, err)
		assert.Len(t, runID, 36)
	})

	t.Run("Should record invocation and item metrics", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		metrics, err := NewMetrics(provider.Meter("test"))
		require.NoError(t, err)
		reg := NewRegistry(metrics)
		require.NoError(t, reg.Register(echoDefinition("demo.echo")))

		results, err := reg.Run(testContext(t), "demo.echo", &Execution{
			Items: []Item{
				{JSON: core.Input{"a": 1}},
				{JSON: core.Input{"fail": true}},
				{JSON: core.Input{"b": 2}},
			},
			ContinueOnFail: true,
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))
		invocations := sumByStatus(t, rm, "chatwoot_node_invocations_total")
		items := sumByStatus(t, rm, "chatwoot_node_items_total")
		assert.Equal(t, int64(1), invocations[StatusSuccess])
		assert.Equal(t, int64(2), items[StatusSuccess])
		assert.Equal(t, int64(1), items[StatusFailure])
	})

	t.Run("Should record failure when node aborts", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		metrics, err := NewMetrics(provider.Meter("test"))
		require.NoError(t, err)
		reg := NewRegistry(metrics)
		require.NoError(t, reg.Register(echoDefinition("demo.echo")))

		_, err = reg.Run(testContext(t), "demo.echo", &Execution{
			Items: []Item{{JSON: core.Input{"fail": true}}},
		})
		require.Error(t, err)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))
		invocations := sumByStatus(t, rm, "chatwoot_node_invocations_total")
		assert.Equal(t, int64(1), invocations[StatusFailure])
	})
}

func sumByStatus(t *testing.T, rm metricdata.ResourceMetrics, name string) map[string]int64 {
	t.Helper()
	totals := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value("status")
				totals[status.AsString()] += dp.Value
			}
		}
	}
	return totals
}
