package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(42, "2024-01-15")
	b := Generate(42, "2024-01-15")
	assert.Equal(t, a, b)

	c := Generate(43, "2024-01-15")
	assert.NotEqual(t, a, c)
}

func TestGenerate_Shape(t *testing.T) {
	blocks := Generate(42, "2024-01-15")

	// 31 districts across 5 states, 24 blocks each.
	require.Len(t, blocks, 31*blocksPerDistrict)

	states := map[string]bool{}
	for i, b := range blocks {
		assert.Equal(t, i+1, b.ID)
		assert.NotEmpty(t, b.BlockName)
		assert.NotEmpty(t, b.District)
		assert.Equal(t, "2024-01-15", b.LastUpdated)
		states[b.State] = true
	}
	assert.Len(t, states, 5)
}

func TestGenerate_ValidRecords(t *testing.T) {
	blocks := Generate(42, "2024-01-15")

	for _, b := range blocks {
		require.NoError(t, domain.ValidateCoordinates(b.Latitude, b.Longitude), "block %d", b.ID)
		assert.Equal(t, DeriveRiskLevel(b.DepthToWater, b.Rainfall), b.RiskLevel, "block %d", b.ID)
		assert.Greater(t, b.AnnualExtractable, 0.0, "block %d", b.ID)
		assert.LessOrEqual(t, b.GroundwaterExtraction, b.AnnualExtractable, "block %d", b.ID)
		assert.GreaterOrEqual(t, b.StageOfExtraction, 0.0, "block %d", b.ID)
	}
}

func TestGenerate_BuildsValidCatalog(t *testing.T) {
	c, err := New(Generate(42, "2024-01-15"))
	require.NoError(t, err)
	assert.Equal(t, 31*blocksPerDistrict, c.Len())
}

func TestDeriveRiskLevel(t *testing.T) {
	tests := []struct {
		name     string
		depth    float64
		rainfall float64
		want     string
	}{
		{"shallow and wet", 5, 900, domain.RiskGreen},
		{"shallow but dry", 5, 400, domain.RiskRed},
		{"moderate depth, moderate rain", 15, 500, domain.RiskYellow},
		{"deep", 30, 1000, domain.RiskRed},
		{"green boundary depth", 10, 900, domain.RiskYellow},
		{"yellow boundary rainfall", 15, 450, domain.RiskRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRiskLevel(tt.depth, tt.rainfall))
		})
	}
}
