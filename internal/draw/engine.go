// Package draw implements the weighted rarity draw and the deterministic
// daily sacrifice selection.
package draw

import (
	"math/rand"
	"sync"
	"time"

	"citadelle-cards-api/internal/catalog"
	"citadelle-cards-api/internal/model"
)

// RarityWeights is the fixed draw probability table. The values are the
// product-configured ones and sum to 1.0189, not exactly 1; sampling is
// proportional to the actual sum, so they behave as relative weights.
var RarityWeights = map[model.Category]float64{
	model.CategorySecret:     0.005,
	model.CategoryFounder:    0.01,
	model.CategoryHistorical: 0.02,
	model.CategoryMaster:     0.06,
	model.CategoryBlackHole:  0.06,
	model.CategoryArchitects: 0.07,
	model.CategoryTeachers:   0.1167,
	model.CategoryOther:      0.2569,
	model.CategoryStudents:   0.4203,
}

// Engine performs weighted random card draws against the catalog.
type Engine struct {
	catalog *catalog.Catalog

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEngine creates a draw engine with a time-seeded random source.
func NewEngine(c *catalog.Catalog) *Engine {
	return NewEngineWithSource(c, rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource creates a draw engine with an explicit random source,
// for reproducible tests.
func NewEngineWithSource(c *catalog.Catalog, src rand.Source) *Engine {
	return &Engine{catalog: c, rnd: rand.New(src)}
}

// Draw returns up to n weighted random picks. A draw whose category has no
// catalog entries yields nothing, so the result may be shorter than n;
// callers must handle partial results. Picks are independent and may repeat.
func (e *Engine) Draw(n int) []model.CatalogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	picks := make([]model.CatalogEntry, 0, n)
	for i := 0; i < n; i++ {
		cat := weightedCategory(e.rnd)
		entries := e.catalog.Entries(cat)
		if len(entries) == 0 {
			continue
		}
		picks = append(picks, entries[e.rnd.Intn(len(entries))])
	}
	return picks
}

// weightedCategory samples one rarity tier proportionally to its weight.
func weightedCategory(rnd *rand.Rand) model.Category {
	total := 0.0
	for _, cat := range model.Categories {
		total += RarityWeights[cat]
	}

	r := rnd.Float64() * total
	for _, cat := range model.Categories {
		r -= RarityWeights[cat]
		if r < 0 {
			return cat
		}
	}
	// Float rounding can leave r barely non-negative.
	return model.Categories[len(model.Categories)-1]
}
