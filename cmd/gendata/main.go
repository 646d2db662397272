// Command gendata writes a sample groundwater block dataset for local
// development and test fixtures. It uses the catalog package's generator so
// fixtures match the schema and risk-derivation rules the service loads.
//
// Usage:
//
//	go run ./cmd/gendata -out data/sample_water_data.json -seed 42
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/sample_water_data.json", "output path for the dataset JSON")
	seed := flag.Int64("seed", 42, "random seed for reproducible generation")
	lastUpdated := flag.String("last-updated", "2024-01-15", "lastUpdated stamp applied to every record")
	flag.Parse()

	blocks := catalog.Generate(*seed, *lastUpdated)
	log.Printf("generated %d blocks", len(blocks))

	if err := writeJSON(*out, blocks); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote dataset: %s", *out)

	printStats(blocks)
	return nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func printStats(blocks []domain.Block) {
	byState := map[string]int{}
	byRisk := map[string]int{}
	for _, b := range blocks {
		byState[b.State]++
		byRisk[b.RiskLevel]++
	}

	fmt.Println("\nblocks per state:")
	for state, n := range byState {
		fmt.Printf("  %-16s %d\n", state, n)
	}
	fmt.Println("risk distribution:")
	for _, risk := range []string{domain.RiskGreen, domain.RiskYellow, domain.RiskRed} {
		fmt.Printf("  %-8s %d\n", risk, byRisk[risk])
	}
}
