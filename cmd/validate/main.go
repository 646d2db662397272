// Command validate performs integrity checks on a groundwater catalog file
// before it is deployed: id uniqueness, field presence, value domains,
// coordinate ranges, and consistency between measurements and the derived
// risk level.
//
// Usage:
//
//	go run ./cmd/validate -catalog data/sample_water_data.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogPath := flag.String("catalog", "", "path to the catalog JSON file")
	flag.Parse()

	if *catalogPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*catalogPath); code != 0 {
		os.Exit(code)
	}
}

func run(catalogPath string) int {
	fmt.Println("=== Groundwater Catalog Validation ===")
	fmt.Println()

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read catalog: %v\n", err)
		return 1
	}
	var blocks []domain.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse catalog: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateIdentity(blocks),
		validateLabels(blocks),
		validateCoordinates(blocks),
		validateMeasurements(blocks),
		validateRiskLevels(blocks),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-36s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d\n", len(blocks))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateIdentity(blocks []domain.Block) *phase {
	p := &phase{name: "Identity (unique ids)"}
	seen := map[int]int{}
	for i, b := range blocks {
		if b.ID <= 0 {
			p.errorf("record %d: non-positive id %d", i, b.ID)
		}
		if prev, dup := seen[b.ID]; dup {
			p.errorf("record %d: duplicate id %d (first at record %d)", i, b.ID, prev)
			continue
		}
		seen[b.ID] = i
	}
	return p
}

func validateLabels(blocks []domain.Block) *phase {
	p := &phase{name: "Labels (field presence)"}
	for _, b := range blocks {
		if b.BlockName == "" {
			p.errorf("id %d: empty blockName", b.ID)
		}
		if b.District == "" {
			p.errorf("id %d: empty district", b.ID)
		}
		if b.State == "" {
			p.errorf("id %d: empty state", b.ID)
		}
		if b.LastUpdated == "" {
			p.errorf("id %d: empty lastUpdated", b.ID)
		}
	}
	return p
}

func validateCoordinates(blocks []domain.Block) *phase {
	p := &phase{name: "Coordinates (WGS-84 ranges)"}
	for _, b := range blocks {
		if err := domain.ValidateCoordinates(b.Latitude, b.Longitude); err != nil {
			p.errorf("id %d: %v", b.ID, err)
		}
	}
	return p
}

func validateMeasurements(blocks []domain.Block) *phase {
	p := &phase{name: "Measurements (non-negative, finite)"}
	for _, b := range blocks {
		checks := []struct {
			name  string
			value float64
		}{
			{"rainfall", b.Rainfall},
			{"groundwaterRecharge", b.GroundwaterRecharge},
			{"naturalDischarges", b.NaturalDischarges},
			{"annualExtractable", b.AnnualExtractable},
			{"groundwaterExtraction", b.GroundwaterExtraction},
			{"stageOfExtraction", b.StageOfExtraction},
			{"depthToWater", b.DepthToWater},
		}
		for _, c := range checks {
			if c.value < 0 || math.IsNaN(c.value) || math.IsInf(c.value, 0) {
				p.errorf("id %d: %s = %v", b.ID, c.name, c.value)
			}
		}
		if b.AnnualExtractable > 0 && b.GroundwaterExtraction > 0 {
			stage := b.GroundwaterExtraction / b.AnnualExtractable * 100
			if math.Abs(stage-b.StageOfExtraction) > 1.0 {
				p.errorf("id %d: stageOfExtraction %.2f inconsistent with extraction/extractable (%.2f)",
					b.ID, b.StageOfExtraction, stage)
			}
		}
	}
	return p
}

func validateRiskLevels(blocks []domain.Block) *phase {
	p := &phase{name: "Risk levels (domain + thresholds)"}
	for _, b := range blocks {
		switch b.RiskLevel {
		case domain.RiskGreen, domain.RiskYellow, domain.RiskRed:
		default:
			p.errorf("id %d: unknown risk level %q", b.ID, b.RiskLevel)
			continue
		}
		if derived := catalog.DeriveRiskLevel(b.DepthToWater, b.Rainfall); derived != b.RiskLevel {
			p.errorf("id %d: risk level %s does not match thresholds (expected %s for depth %.2f, rainfall %.2f)",
				b.ID, b.RiskLevel, derived, b.DepthToWater, b.Rainfall)
		}
	}
	return p
}
