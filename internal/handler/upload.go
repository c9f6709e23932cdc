package handler

import (
	"errors"
	"net/http"

	"acai-backend/internal/metrics"
	"acai-backend/internal/storage"
	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 6 << 20

// UploadHandler stores menu images and serves them back.
type UploadHandler struct {
	Store storage.ImageStore
}

func (h UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/uploads", h.upload)
}

func (h UploadHandler) RegisterPublicRoutes(r chi.Router) {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.Store.Dir)))
	r.Get("/uploads/*", fs.ServeHTTP)
}

func (h UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		writeErrorWithErr(w, http.StatusBadRequest, "invalid upload", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	if header.Size > maxUploadBytes {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		writeError(w, http.StatusBadRequest, "file too large (max 6MB)")
		return
	}

	url, err := h.Store.Save(file)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotImage) {
			status = http.StatusBadRequest
		}
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		writeErrorWithErr(w, status, "upload failed", err)
		return
	}
	metrics.ImageUploads.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
