// Package domain models groundwater assessment data for agricultural blocks.
//
// # Data Source
//
// Each record describes one assessment block, the administrative unit used by
// Indian groundwater authorities (block within a district within a state).
// The catalog is a flat JSON array generated offline (see cmd/gendata) or
// supplied externally; it is loaded once at startup and never mutated, so all
// reads are lock-free.
//
// # Location Labels
//
// The canonical display label for a block is
//
//	"<blockName>, <district>, <state>"  →  e.g. "Ludhiana Block 3, Ludhiana District, Punjab"
//
// Free-text queries are matched against these labels (fuzzy matching) or
// against the block's full descriptive document (semantic matching). The
// shorter "<blockName>, <district>" form is what users see as the matched
// location in responses.
//
// # Measurements
//
// Rainfall is in mm, recharge/discharge/extraction volumes in hectare-meters
// (ham), depth to water in meters. Stage of extraction is a percentage of the
// annual extractable volume; values above 100 are valid and indicate
// over-extraction.
//
// # Risk Levels
//
// Risk level is one of Green, Yellow, Red, derived at data-generation time
// from depth-to-water and rainfall thresholds:
//
//	depth < 10m and rainfall > 700mm  → Green
//	depth < 20m and rainfall > 450mm  → Yellow
//	otherwise                         → Red
//
// Consumers never recompute it; they only read it.
//
// # Confidence Scores
//
// Every match carries a confidence in [0, 1] with uniform semantics across
// matching strategies:
//
//	fuzzy:      partial-ratio score / 100
//	semantic:   query-term overlap against the document, ×1.5, capped at 1.0
//	coordinate: max(0, 1 - distance/radius)
//
// The semantic score deliberately ignores the embedding backend's native
// distance metric, which is not calibrated to a stable [0, 1] scale. See
// [OverlapConfidence].
package domain
