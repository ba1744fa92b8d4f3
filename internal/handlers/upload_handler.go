package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"finoffice-backend/internal/middleware"
)

const maxUploadSize = 5 << 20 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStore is the slice of the storage layer the upload handler needs.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type UploadHandler struct {
	Store ObjectStore
}

func NewUploadHandler(store ObjectStore) *UploadHandler {
	return &UploadHandler{Store: store}
}

// UploadImage stores an entry image and returns its public URL.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File size too large. Maximum size is 5MB.", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		http.Error(w, "File size too large. Maximum size is 5MB.", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		http.Error(w, "Invalid file type. Please upload JPEG, PNG, GIF, or WebP images.", http.StatusBadRequest)
		return
	}

	employeeID := r.FormValue("employeeId")
	if employeeID == "" {
		employeeID, _ = middleware.GetAccountIDFromContext(r.Context())
	}
	entryID := r.FormValue("entryId")
	if entryID == "" {
		entryID = "new"
	}

	key := buildObjectKey(employeeID, entryID, header.Filename)

	url, err := h.Store.Put(r.Context(), key, contentType, file, header.Size)
	if err != nil {
		http.Error(w, "Failed to upload file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"imageUrl": url})
}

// buildObjectKey produces a collision-free key from the owning employee, the
// entry (or "new" for not-yet-saved entries) and the sanitized filename.
func buildObjectKey(employeeID, entryID, filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s-%s-%d-%s", employeeID, entryID, time.Now().UnixNano(), base)
}
