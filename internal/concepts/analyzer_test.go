package concepts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzerCoverage(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(NewStore(""), nil, nil)
	require.NoError(t, err)

	cov := NewAnalyzer(inv).Analyze("React.js", "Components receive PROPS and keep local state with Hooks.")

	require.True(t, cov.Tracked())
	assert.InDelta(t, 0.8, *cov.Coverage, 1e-9)
	assert.Equal(t, []string{"components", "props", "state", "hooks"}, cov.Mentioned)
	assert.Equal(t, []string{"virtual dom"}, cov.Missing)
}

func TestAnalyzerSubstringMatch(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(NewStore(""), nil, nil)
	require.NoError(t, err)

	// "async" occurs inside "asynchronous".
	cov := NewAnalyzer(inv).Analyze("JavaScript", "Asynchronous code")

	assert.Equal(t, []string{"async"}, cov.Mentioned)
	assert.Len(t, cov.Missing, 4)
}

func TestAnalyzerUnknownSkill(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(NewStore(""), nil, nil)
	require.NoError(t, err)

	cov := NewAnalyzer(inv).Analyze("Rust", "ownership and borrowing")

	assert.False(t, cov.Tracked())
	assert.Nil(t, cov.Coverage)
	assert.Empty(t, cov.Mentioned)
	assert.Empty(t, cov.Missing)
	assert.NotNil(t, cov.Mentioned)
}
