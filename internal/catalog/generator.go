package catalog

import (
	"fmt"
	"math/rand"

	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// stateProfile drives per-state sample generation: district list, plausible
// rainfall and depth-to-water ranges, how aggressively the state extracts
// groundwater, and a bounding box for coordinates.
type stateProfile struct {
	districts      []string
	rainfallMin    float64 // mm
	rainfallMax    float64
	depthMin       float64 // meters
	depthMax       float64
	extractionBias float64
	latMin, latMax float64
	lonMin, lonMax float64
}

// stateProfiles is ordered so generation is reproducible under a fixed seed.
var stateProfiles = []struct {
	name    string
	profile stateProfile
}{
	{"Punjab", stateProfile{
		districts:      []string{"Amritsar", "Ludhiana", "Jalandhar", "Patiala", "Bathinda", "Mohali", "Sangrur"},
		rainfallMin:    400, rainfallMax: 800,
		depthMin: 8, depthMax: 25,
		extractionBias: 0.7,
		latMin:         30.0, latMax: 32.0, lonMin: 74.0, lonMax: 76.0,
	}},
	{"Rajasthan", stateProfile{
		districts:      []string{"Jaipur", "Jodhpur", "Udaipur", "Kota", "Bikaner", "Ajmer", "Alwar"},
		rainfallMin:    200, rainfallMax: 500,
		depthMin: 15, depthMax: 40,
		extractionBias: 0.6,
		latMin:         25.0, latMax: 28.0, lonMin: 70.0, lonMax: 78.0,
	}},
	{"Haryana", stateProfile{
		districts:      []string{"Gurgaon", "Faridabad", "Rohtak", "Panipat", "Karnal", "Hisar"},
		rainfallMin:    500, rainfallMax: 900,
		depthMin: 10, depthMax: 30,
		extractionBias: 0.65,
		latMin:         28.0, latMax: 30.5, lonMin: 75.5, lonMax: 77.5,
	}},
	{"Uttar Pradesh", stateProfile{
		districts:      []string{"Lucknow", "Kanpur", "Varanasi", "Agra", "Meerut", "Allahabad"},
		rainfallMin:    700, rainfallMax: 1100,
		depthMin: 5, depthMax: 20,
		extractionBias: 0.55,
		latMin:         25.0, latMax: 30.0, lonMin: 77.0, lonMax: 84.0,
	}},
	{"Madhya Pradesh", stateProfile{
		districts:      []string{"Bhopal", "Indore", "Gwalior", "Jabalpur", "Ujjain"},
		rainfallMin:    800, rainfallMax: 1200,
		depthMin: 5, depthMax: 15,
		extractionBias: 0.5,
		latMin:         21.0, latMax: 26.0, lonMin: 74.0, lonMax: 82.0,
	}},
}

// blocksPerDistrict gives each district enough blocks for useful match spread.
const blocksPerDistrict = 24

// Generate produces a deterministic sample dataset for the given seed,
// mirroring the shape of real block assessment data: correlated recharge,
// discharge, and extraction figures with the risk level derived from
// depth-to-water and rainfall thresholds.
func Generate(seed int64, lastUpdated string) []domain.Block {
	rng := rand.New(rand.NewSource(seed))
	var blocks []domain.Block
	id := 1

	for _, sp := range stateProfiles {
		p := sp.profile
		for _, district := range p.districts {
			for n := 1; n <= blocksPerDistrict; n++ {
				rainfall := uniform(rng, p.rainfallMin, p.rainfallMax)
				depth := uniform(rng, p.depthMin, p.depthMax)
				risk := DeriveRiskLevel(depth, rainfall)

				recharge := rainfall * uniform(rng, 8, 12)
				discharges := recharge * uniform(rng, 0.08, 0.12)
				extractable := recharge - discharges

				bias := p.extractionBias
				switch risk {
				case domain.RiskRed:
					bias *= 1.2
				case domain.RiskGreen:
					bias *= 0.8
				}
				extraction := extractable * uniform(rng, bias-0.1, bias+0.1)
				if limit := extractable * 0.95; extraction > limit {
					extraction = limit
				}

				blocks = append(blocks, domain.Block{
					ID:                    id,
					BlockName:             fmt.Sprintf("%s Block %d", district, n),
					District:              district + " District",
					State:                 sp.name,
					Rainfall:              round2(rainfall),
					GroundwaterRecharge:   round2(recharge),
					NaturalDischarges:     round2(discharges),
					AnnualExtractable:     round2(extractable),
					GroundwaterExtraction: round2(extraction),
					StageOfExtraction:     round2(extraction / extractable * 100),
					DepthToWater:          round2(depth),
					RiskLevel:             risk,
					Latitude:              round4(uniform(rng, p.latMin, p.latMax)),
					Longitude:             round4(uniform(rng, p.lonMin, p.lonMax)),
					LastUpdated:           lastUpdated,
				})
				id++
			}
		}
	}
	return blocks
}

// DeriveRiskLevel applies the generation-time risk thresholds. Exposed so
// cmd/validate can check catalog consistency against the same rule.
func DeriveRiskLevel(depthToWater, rainfall float64) string {
	switch {
	case depthToWater < 10 && rainfall > 700:
		return domain.RiskGreen
	case depthToWater < 20 && rainfall > 450:
		return domain.RiskYellow
	default:
		return domain.RiskRed
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 { return float64(int64(v*100+0.5)) / 100 }
func round4(v float64) float64 { return float64(int64(v*10000+0.5)) / 10000 }
