package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"citadelle-cards-api/internal/cache"
	"citadelle-cards-api/internal/store"
	"citadelle-cards-api/pkg/apierror"
	"citadelle-cards-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ImageHandler serves card images by proxying bytes from the file store,
// so remote store URLs never leak into clients. Bytes are cached with a
// TTL; the catalog itself stays the only source of which files exist.
type ImageHandler struct {
	files store.FileStore
	cache cache.Cache
	ttl   time.Duration
}

// NewImageHandler creates a new image handler.
func NewImageHandler(files store.FileStore, c cache.Cache, ttl time.Duration) *ImageHandler {
	return &ImageHandler{files: files, cache: c, ttl: ttl}
}

// cachedImage is the cache payload for one image.
type cachedImage struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Serve handles GET /api/v1/cards/image/*
// The wildcard tail is the file ID (local file IDs contain slashes).
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "*")
	if fileID == "" {
		response.Error(w, apierror.BadRequest("file id is required"))
		return
	}

	if h.cache != nil {
		if raw, err := h.cache.Get(r.Context(), "image:"+fileID); err == nil {
			var img cachedImage
			if json.Unmarshal(raw, &img) == nil {
				writeImage(w, img.MimeType, img.Data)
				return
			}
		}
	}

	data, mimeType, err := h.files.GetBytes(r.Context(), fileID)
	if err == store.ErrFileNotFound {
		response.Error(w, apierror.NotFound("image not found"))
		return
	}
	if err != nil {
		log.Printf("[ImageHandler] Failed to retrieve image %s: %v", fileID, err)
		response.Error(w, apierror.NotFound("image not found"))
		return
	}

	if h.cache != nil {
		if raw, err := json.Marshal(cachedImage{MimeType: mimeType, Data: data}); err == nil {
			_ = h.cache.Set(r.Context(), "image:"+fileID, raw, h.ttl)
		}
	}

	writeImage(w, mimeType, data)
}

func writeImage(w http.ResponseWriter, mimeType string, data []byte) {
	if mimeType == "" {
		mimeType = "image/png"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
