// Package catalog holds the immutable set of groundwater block records.
//
// The catalog is built exactly once at process start (from a JSON dataset or
// the built-in generator) and never mutated, so concurrent readers need no
// synchronization.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// Catalog is a read-only, id-unique, ordered collection of blocks with
// precomputed lookup structures for the matchers.
type Catalog struct {
	blocks  []domain.Block
	byID    map[int]domain.Block
	byLabel map[string]domain.Block
	labels  []string
}

// New builds a Catalog from an ordered block slice. It rejects duplicate ids
// and blocks with unknown risk levels; the input slice is copied so later
// mutation by the caller cannot leak in.
func New(blocks []domain.Block) (*Catalog, error) {
	c := &Catalog{
		blocks:  make([]domain.Block, len(blocks)),
		byID:    make(map[int]domain.Block, len(blocks)),
		byLabel: make(map[string]domain.Block, len(blocks)),
		labels:  make([]string, len(blocks)),
	}
	copy(c.blocks, blocks)

	for i, b := range c.blocks {
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate block id %d", b.ID)
		}
		switch b.RiskLevel {
		case domain.RiskGreen, domain.RiskYellow, domain.RiskRed:
		default:
			return nil, fmt.Errorf("block id %d: unknown risk level %q", b.ID, b.RiskLevel)
		}
		c.byID[b.ID] = b
		c.byLabel[b.Label()] = b
		c.labels[i] = b.Label()
	}
	return c, nil
}

// Load reads a JSON block dataset from disk and builds a Catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var blocks []domain.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("catalog %s contains no records", path)
	}
	c, err := New(blocks)
	if err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of blocks.
func (c *Catalog) Len() int { return len(c.blocks) }

// Blocks returns the ordered block slice. Callers must treat it as read-only.
func (c *Catalog) Blocks() []domain.Block { return c.blocks }

// Labels returns the canonical display labels in catalog order. Read-only.
func (c *Catalog) Labels() []string { return c.labels }

// ByID looks up a block by its id.
func (c *Catalog) ByID(id int) (domain.Block, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// ByLabel resolves a canonical display label back to its block.
func (c *Catalog) ByLabel(label string) (domain.Block, bool) {
	b, ok := c.byLabel[label]
	return b, ok
}
