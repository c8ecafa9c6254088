package handler

import (
	"net/http"
	"runtime"
	"time"

	"citadelle-cards-api/internal/catalog"
	"citadelle-cards-api/pkg/apierror"
	"citadelle-cards-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	catalog   *catalog.Catalog
	storeType string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(cat *catalog.Catalog, storeType string) *AdminHandler {
	return &AdminHandler{
		catalog:   cat,
		storeType: storeType,
		startTime: time.Now(),
	}
}

// ReloadCatalog handles POST /api/v1/admin/reload
func (h *AdminHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(r.Context()); err != nil {
		response.Error(w, apierror.ServiceUnavailable("catalog reload failed"))
		return
	}
	response.OK(w, map[string]interface{}{
		"status": "reloaded",
		"cards":  h.catalog.Size(),
	})
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["store_type"] = h.storeType
	stats["catalog_cards"] = h.catalog.Size()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	response.OK(w, stats)
}
