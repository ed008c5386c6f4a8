package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_NoEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{ServiceName: "shire-of-paws"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestTrimScheme(t *testing.T) {
	require.Equal(t, "collector:4318", trimScheme("http://collector:4318/"))
	require.Equal(t, "collector:4318", trimScheme("https://collector:4318"))
	require.Equal(t, "collector:4318", trimScheme("collector:4318"))
}
