package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denvermesh/meshsync/pkg/logging"
)

func TestFromContext(t *testing.T) {
	t.Run("empty context returns default logger", func(t *testing.T) {
		logger := logging.FromContext(context.Background())
		require.NotNil(t, logger)
		assert.Equal(t, logging.Default(), logger)
	})

	t.Run("nil context returns default logger", func(t *testing.T) {
		//nolint:staticcheck // Exercising the nil guard on purpose
		logger := logging.FromContext(nil)
		require.NotNil(t, logger)
	})

	t.Run("WithLogger round-trips", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		assert.Equal(t, tl.Logger, logging.FromContext(ctx))
	})

	t.Run("WithLogger nil falls back to default", func(t *testing.T) {
		ctx := logging.WithLogger(context.Background(), nil)
		assert.Equal(t, logging.Default(), logging.FromContext(ctx))
	})

	t.Run("Ctx is an alias for FromContext", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		assert.Equal(t, logging.FromContext(ctx), logging.Ctx(ctx))
	})
}

func TestWithField(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  string
	}{
		{"string", "provider", "letsmesh", `"provider":"letsmesh"`},
		{"int", "count", 3, `"count":3`},
		{"int64", "last_heard", int64(1760000000), `"last_heard":1760000000`},
		{"float64", "lat", 39.7392, `"lat":39.7392`},
		{"bool", "is_observer", true, `"is_observer":true`},
		{"error", "cause", assert.AnError, assert.AnError.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := logging.NewTestLogger(t)
			ctx := logging.WithLogger(context.Background(), tl.Logger)
			ctx = logging.WithField(ctx, tt.key, tt.value)

			logging.FromContext(ctx).Info().Msg("field test")
			tl.AssertContains(t, tt.want)
		})
	}
}

func TestChainedContextFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithProvider(ctx, "meshmapper")
	ctx = logging.WithCategory(ctx, "repeaters")

	logging.FromContext(ctx).Info().Msg("chained")

	assert.True(t, tl.ContainsAll(`"provider":"meshmapper"`, `"category":"repeaters"`, "chained"))
}
