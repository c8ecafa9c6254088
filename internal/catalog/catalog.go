// Package catalog maintains the process-wide card catalog, built from the
// image folders of the file store. The catalog is read-mostly: it is loaded
// at startup and rebuilt only by an explicit Reload.
package catalog

import (
	"context"
	"log"
	"strings"
	"sync"

	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/store"
)

// FullVariantMarker flags alternative "full art" prints in file names.
// Cards carrying it are excluded from the sacrifice pool.
const FullVariantMarker = "(Full)"

// Catalog caches the drawable cards per rarity tier.
type Catalog struct {
	files   store.FileStore
	folders map[string]string // category name -> folder ID

	mu         sync.RWMutex
	byCategory map[model.Category][]model.CatalogEntry
}

// New creates an empty catalog. Call Reload before first use.
func New(files store.FileStore, folders map[string]string) *Catalog {
	return &Catalog{
		files:      files,
		folders:    folders,
		byCategory: make(map[model.Category][]model.CatalogEntry),
	}
}

// Reload rebuilds the catalog from the file store. A category whose folder
// listing fails is kept empty rather than failing the whole reload, so a
// partially reachable store still yields a usable catalog.
func (c *Catalog) Reload(ctx context.Context) error {
	fresh := make(map[model.Category][]model.CatalogEntry, len(model.Categories))

	for _, cat := range model.Categories {
		folderID, ok := c.folders[string(cat)]
		if !ok || folderID == "" {
			fresh[cat] = nil
			continue
		}
		files, err := c.files.ListFiles(ctx, folderID)
		if err != nil {
			log.Printf("[Catalog] Failed to load category %s: %v", cat, err)
			fresh[cat] = nil
			continue
		}
		entries := make([]model.CatalogEntry, 0, len(files))
		for _, f := range files {
			name := stripExtension(f.Name)
			entries = append(entries, model.CatalogEntry{
				FileID:      f.ID,
				Name:        name,
				Category:    cat,
				FullVariant: strings.Contains(name, FullVariantMarker),
			})
		}
		fresh[cat] = entries
	}

	c.mu.Lock()
	c.byCategory = fresh
	c.mu.Unlock()

	log.Printf("[Catalog] Reloaded: %d cards across %d categories", c.Size(), len(model.Categories))
	return nil
}

// Entries returns the catalog entries for a category.
func (c *Catalog) Entries(cat model.Category) []model.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byCategory[cat]
}

// Lookup finds the entry for a (category, name) pair.
func (c *Catalog) Lookup(cat model.Category, name string) (model.CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.byCategory[cat] {
		if e.Name == name {
			return e, true
		}
	}
	return model.CatalogEntry{}, false
}

// ImageID resolves the backing file for a (category, name) pair, or "".
func (c *Catalog) ImageID(cat model.Category, name string) string {
	if e, ok := c.Lookup(cat, name); ok {
		return e.FileID
	}
	return ""
}

// IsFullVariant reports whether a card is a full-art print. Cards without a
// catalog entry (backing file removed since acquisition) fall back to the
// name marker.
func (c *Catalog) IsFullVariant(cat model.Category, name string) bool {
	if e, ok := c.Lookup(cat, name); ok {
		return e.FullVariant
	}
	return strings.Contains(name, FullVariantMarker)
}

// Size returns the total number of catalog entries.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entries := range c.byCategory {
		n += len(entries)
	}
	return n
}

func stripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
