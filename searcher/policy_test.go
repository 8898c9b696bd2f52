package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(math.Sqrt2, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(math.Sqrt2, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + math.Sqrt2*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute u/n + c*sqrt(ln(N)/n)")
	})

	t.Run("unvisited child is infinite", func(t *testing.T) {
		policy := newUCT(math.Sqrt2, 100)

		require.True(t, math.IsInf(policy.evaluate(0, 0), 1), "Unvisited children are selected first")
	})

	t.Run("single parent visit has no exploration term", func(t *testing.T) {
		policy := newUCT(math.Sqrt2, 1)

		require.Equal(t, 0.25, policy.evaluate(1, 4))
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		policy1 := newUCT(math.Sqrt2, 100)
		policy2 := newUCT(math.Sqrt2, 1000)

		require.Greater(t, policy2.evaluate(5, 10), policy1.evaluate(5, 10),
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(math.Sqrt2, 100)

		require.Greater(t, policy.evaluate(5, 10), policy.evaluate(5, 20),
			"More child visits should decrease exploration term")
	})

	t.Run("zero exploration is pure exploitation", func(t *testing.T) {
		policy := newUCT(0, 100)

		require.Equal(t, 0.5, policy.evaluate(5, 10))
	})
}
