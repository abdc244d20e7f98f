package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotNil(t *testing.T) {
	require.NotPanics(t, func() { NotNil(1, "one") })
	require.PanicsWithValue(t, "expected sink to be not nil", func() { NotNil(nil, "sink") })
}

func TestPositive(t *testing.T) {
	require.NotPanics(t, func() { Positive(1, "workers") })
	require.PanicsWithValue(t, "expected workers to be positive, got 0", func() { Positive(0, "workers") })
	require.Panics(t, func() { Positive(-3, "workers") })
}
