package match

import (
	"sort"

	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// DefaultRadiusKm bounds coordinate search when the caller does not supply a radius.
const DefaultRadiusKm = 50

// coordinateLimit caps how many nearby blocks a coordinate search returns.
const coordinateLimit = 5

// SearchByCoordinates scans the whole catalog, keeps blocks within radiusKm
// of the query point, and returns the nearest results sorted ascending by
// distance (ties broken by lowest id). Confidence decays linearly with
// distance: max(0, 1 - distance/radius).
func SearchByCoordinates(c *catalog.Catalog, lat, lon, radiusKm float64) []domain.Match {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	var matches []domain.Match
	for _, b := range c.Blocks() {
		d := domain.Haversine(lat, lon, b.Latitude, b.Longitude)
		if d > radiusKm {
			continue
		}
		confidence := 1 - d/radiusKm
		if confidence < 0 {
			confidence = 0
		}
		matches = append(matches, domain.Match{
			Block:      b,
			Confidence: confidence,
			DistanceKm: d,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Block.ID < matches[j].Block.ID
	})
	if len(matches) > coordinateLimit {
		matches = matches[:coordinateLimit]
	}
	return matches
}
