package domain

import "time"

// Strategy names recorded on resolutions and exported as metric labels.
const (
	StrategySemantic   = "semantic"
	StrategyFuzzy      = "fuzzy"
	StrategyCoordinate = "coordinate"
)

// Resolution is the enriched answer to a location query: the winning block
// plus audit fields describing how it was found. The searched coordinates are
// the caller's originals passed through verbatim, not the matched block's.
type Resolution struct {
	Block Block `json:"block"`

	Query             string    `json:"query"`
	SearchedLatitude  float64   `json:"searchedLatitude"`
	SearchedLongitude float64   `json:"searchedLongitude"`
	MatchedLocation   string    `json:"matchedLocation"` // "<blockName>, <district>"
	ConfidenceScore   float64   `json:"confidenceScore"`
	Strategy          string    `json:"strategy"`
	ResolvedAt        time.Time `json:"resolvedAt"`
}

// NewResolution stamps a winning match with its audit fields.
func NewResolution(m Match, strategy, query string, lat, lon float64) Resolution {
	return Resolution{
		Block:             m.Block,
		Query:             query,
		SearchedLatitude:  lat,
		SearchedLongitude: lon,
		MatchedLocation:   m.Block.MatchedLabel(),
		ConfidenceScore:   m.Confidence,
		Strategy:          strategy,
		ResolvedAt:        clock.Now().UTC(),
	}
}
