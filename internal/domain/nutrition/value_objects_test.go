package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMacroSplit(t *testing.T) {
	t.Run("valid split", func(t *testing.T) {
		split, err := NewMacroSplit(40, 35, 25)
		require.NoError(t, err)
		assert.Equal(t, 40, split.Protein())
		assert.Equal(t, 35, split.Carbs())
		assert.Equal(t, 25, split.Fat())
	})

	t.Run("sum must be exactly 100", func(t *testing.T) {
		_, err := NewMacroSplit(40, 35, 20)
		assert.ErrorIs(t, err, ErrMacroSumInvalid)

		_, err = NewMacroSplit(40, 40, 25)
		assert.ErrorIs(t, err, ErrMacroSumInvalid)
	})

	t.Run("percentages must be in range", func(t *testing.T) {
		_, err := NewMacroSplit(-10, 60, 50)
		assert.ErrorIs(t, err, ErrMacroOutOfRange)

		_, err = NewMacroSplit(110, -5, -5)
		assert.ErrorIs(t, err, ErrMacroOutOfRange)
	})
}

func TestNewFacts(t *testing.T) {
	t.Run("valid facts", func(t *testing.T) {
		facts, err := NewFacts(650, 45, 60, 20)
		require.NoError(t, err)
		assert.Equal(t, 650, facts.Calories())
		assert.Nil(t, facts.FiberG())
	})

	t.Run("calorie bounds", func(t *testing.T) {
		_, err := NewFacts(49, 10, 10, 10)
		assert.ErrorIs(t, err, ErrCaloriesTooLow)

		_, err = NewFacts(5001, 10, 10, 10)
		assert.ErrorIs(t, err, ErrCaloriesTooHigh)
	})

	t.Run("negative grams rejected", func(t *testing.T) {
		_, err := NewFacts(650, -1, 60, 20)
		assert.ErrorIs(t, err, ErrNegativeGrams)
	})

	t.Run("optional nutrients are copies", func(t *testing.T) {
		base, err := NewFacts(650, 45, 60, 20)
		require.NoError(t, err)

		withFiber, err := base.WithFiber(8)
		require.NoError(t, err)
		assert.Nil(t, base.FiberG())
		require.NotNil(t, withFiber.FiberG())
		assert.Equal(t, 8.0, *withFiber.FiberG())

		_, err = base.WithSodium(-1)
		assert.ErrorIs(t, err, ErrNegativeGrams)
	})
}

func TestFactsMacroPercents(t *testing.T) {
	t.Run("derived from gram counts", func(t *testing.T) {
		// 50g protein (200 kcal), 50g carbs (200 kcal), 20g fat (180 kcal)
		// out of 580 kcal derived energy.
		facts, err := NewFacts(600, 50, 50, 20)
		require.NoError(t, err)

		pcts := facts.MacroPercents()
		assert.Equal(t, 34.5, pcts.Protein)
		assert.Equal(t, 34.5, pcts.Carbs)
		assert.Equal(t, 31.0, pcts.Fat)
	})

	t.Run("zero grams yield zero percentages", func(t *testing.T) {
		facts, err := NewFacts(100, 0, 0, 0)
		require.NoError(t, err)

		pcts := facts.MacroPercents()
		assert.Zero(t, pcts.Protein)
		assert.Zero(t, pcts.Carbs)
		assert.Zero(t, pcts.Fat)
	})
}

func TestFactsEqual(t *testing.T) {
	a, err := NewFacts(650, 45, 60, 20)
	require.NoError(t, err)
	b, err := NewFacts(650, 45, 60, 20)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))

	aFiber, err := a.WithFiber(8)
	require.NoError(t, err)
	bFiber, err := b.WithFiber(8)
	require.NoError(t, err)

	// Same fiber amount behind different pointers still compares equal.
	assert.True(t, aFiber.Equal(bFiber))
	assert.False(t, aFiber.Equal(b))

	c, err := NewFacts(651, 45, 60, 20)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}
