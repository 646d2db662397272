package domain

import "fmt"

// Risk level classification for a block. Derived at data-generation time,
// never recomputed here.
const (
	RiskGreen  = "Green"
	RiskYellow = "Yellow"
	RiskRed    = "Red"
)

// Block is one groundwater assessment unit. Field names in JSON follow the
// dataset's camelCase convention. Records are immutable once loaded.
type Block struct {
	ID                    int     `json:"id"`
	BlockName             string  `json:"blockName"`
	District              string  `json:"district"`
	State                 string  `json:"state"`
	Rainfall              float64 `json:"rainfall"`              // mm
	GroundwaterRecharge   float64 `json:"groundwaterRecharge"`   // ham
	NaturalDischarges     float64 `json:"naturalDischarges"`     // ham
	AnnualExtractable     float64 `json:"annualExtractable"`     // ham
	GroundwaterExtraction float64 `json:"groundwaterExtraction"` // ham
	StageOfExtraction     float64 `json:"stageOfExtraction"`     // percent, >100 means over-extraction
	DepthToWater          float64 `json:"depthToWater"`          // meters
	RiskLevel             string  `json:"riskLevel"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	LastUpdated           string  `json:"lastUpdated"` // opaque date stamp
}

// Label returns the canonical display label used for fuzzy text matching.
func (b Block) Label() string {
	return fmt.Sprintf("%s, %s, %s", b.BlockName, b.District, b.State)
}

// MatchedLabel is the shorter human-readable form reported back to callers.
func (b Block) MatchedLabel() string {
	return fmt.Sprintf("%s, %s", b.BlockName, b.District)
}

// Document renders the block as a descriptive paragraph. One document per
// block is embedded and indexed for semantic search, and the same text is
// what query-term overlap is scored against.
func (b Block) Document() string {
	return fmt.Sprintf(
		"Location: %s, %s, %s\n"+
			"Rainfall: %.2f mm\n"+
			"Groundwater Recharge: %.2f ham\n"+
			"Natural Discharges: %.2f ham\n"+
			"Annual Extractable: %.2f ham\n"+
			"Groundwater Extraction: %.2f ham\n"+
			"Stage of Extraction: %.2f%%\n"+
			"Depth to Water: %.2f meters\n"+
			"Risk Level: %s\n"+
			"Coordinates: %.4f, %.4f\n"+
			"Last Updated: %s",
		b.BlockName, b.District, b.State,
		b.Rainfall,
		b.GroundwaterRecharge,
		b.NaturalDischarges,
		b.AnnualExtractable,
		b.GroundwaterExtraction,
		b.StageOfExtraction,
		b.DepthToWater,
		b.RiskLevel,
		b.Latitude, b.Longitude,
		b.LastUpdated,
	)
}

// Match is a transient per-query result: a catalog block with the confidence
// the matching strategy assigned to it. DistanceKm is populated only by
// coordinate search.
type Match struct {
	Block      Block
	Confidence float64
	DistanceKm float64
}
