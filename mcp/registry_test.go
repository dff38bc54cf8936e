package mcp_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/github-mcp-bridge/mcp"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, mcp.Arguments) (any, error) {
	return nil, nil
}

func TestNewRegistry(t *testing.T) {
	t.Run("keeps registration order", func(t *testing.T) {
		r, err := mcp.NewRegistry(
			mcp.Tool{Name: "b", Handler: noop},
			mcp.Tool{Name: "a", Handler: noop},
		)
		require.NoError(t, err)
		require.Equal(t, 2, r.Len())
		tools := r.Tools()
		require.Equal(t, "b", tools[0].Name)
		require.Equal(t, "a", tools[1].Name)
		require.Equal(t, "object", tools[0].InputSchema.Type)
		require.NotNil(t, tools[0].InputSchema.Properties)

		_, ok := r.Lookup("a")
		require.True(t, ok)
		_, ok = r.Lookup("c")
		require.False(t, ok)
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := mcp.NewRegistry(mcp.Tool{Name: "a", Handler: noop}, mcp.Tool{Name: "a", Handler: noop})
		require.ErrorContains(t, err, "duplicate")
	})

	t.Run("missing handler", func(t *testing.T) {
		_, err := mcp.NewRegistry(mcp.Tool{Name: "a"})
		require.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := mcp.NewRegistry(mcp.Tool{Handler: noop})
		require.Error(t, err)
	})
}
