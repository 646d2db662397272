package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]domain.Block{
		{ID: 1, BlockName: "Block 1", District: "Ludhiana District", State: "Punjab", RiskLevel: domain.RiskGreen, Latitude: 30.90, Longitude: 75.85},
		{ID: 2, BlockName: "Block 2", District: "Ludhiana District", State: "Punjab", RiskLevel: domain.RiskYellow, Latitude: 30.95, Longitude: 75.90},
		{ID: 3, BlockName: "Block 3", District: "Ludhiana District", State: "Punjab", RiskLevel: domain.RiskRed, Latitude: 30.85, Longitude: 75.80},
		{ID: 4, BlockName: "Block 1", District: "Jaipur District", State: "Rajasthan", RiskLevel: domain.RiskRed, Latitude: 26.91, Longitude: 75.78},
		{ID: 5, BlockName: "Block 1", District: "Bhopal District", State: "Madhya Pradesh", RiskLevel: domain.RiskGreen, Latitude: 23.25, Longitude: 77.40},
	})
	require.NoError(t, err)
	return c
}

func TestFuzzyMatch_ExactSubstring(t *testing.T) {
	m := NewFuzzyMatcher(testCatalog(t))

	matches, err := m.Match(context.Background(), "Ludhiana", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	// "ludhiana" is a literal substring of every Ludhiana label, so partial
	// ratio is 100 for all three; ties keep catalog order.
	assert.Equal(t, 1, matches[0].Block.ID)
	assert.Equal(t, 1.0, matches[0].Confidence)
	for _, match := range matches {
		assert.Equal(t, "Ludhiana District", match.Block.District)
	}
}

func TestFuzzyMatch_Misspelling(t *testing.T) {
	m := NewFuzzyMatcher(testCatalog(t))

	matches, err := m.Match(context.Background(), "Block 3, Ludhiana Distrct, Punjab", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, 3, matches[0].Block.ID)
	assert.Greater(t, matches[0].Confidence, 0.6)
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	m := NewFuzzyMatcher(testCatalog(t))

	matches, err := m.Match(context.Background(), "Nonexistent Place Xyz123", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFuzzyMatch_EmptyQuery(t *testing.T) {
	m := NewFuzzyMatcher(testCatalog(t))

	matches, err := m.Match(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFuzzyMatch_LimitsCandidates(t *testing.T) {
	m := NewFuzzyMatcher(testCatalog(t))

	matches, err := m.Match(context.Background(), "Ludhiana", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFuzzyMatcher_Name(t *testing.T) {
	assert.Equal(t, domain.StrategyFuzzy, NewFuzzyMatcher(testCatalog(t)).Name())
}
