package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"relaychat/internal/app/storage"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/randx"
	"relaychat/internal/pkg/resp"
)

// PresignedURLDuration is the lifetime of a download redirect to object storage.
const PresignedURLDuration = 15 * time.Minute

// HandleGetUpload serves a stored attachment. Object storage answers with a redirect
// to a presigned URL; the local store streams the bytes itself.
func HandleGetUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !randx.IsValidBlobName(name) {
			resp.RespondError(w, errs.NewError(errs.ErrFileNotFound))
			return
		}

		if presigner, ok := deps.Blobs.(storage.Presigner); ok {
			url, err := presigner.PresignDownload(r.Context(), name, PresignedURLDuration)
			if err != nil {
				logx.Error(err, "failed to presign download", "name", name)
				resp.RespondError(w, errs.NewError(errs.ErrFileStorageFailed))
				return
			}

			http.Redirect(w, r, url, http.StatusFound)
			return
		}

		data, err := deps.Blobs.Read(r.Context(), name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				resp.RespondError(w, errs.NewError(errs.ErrFileNotFound))
				return
			}

			logx.Error(err, "failed to read blob", "name", name)
			resp.RespondError(w, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		w.Header().Set("Content-Type", storage.ContentType(name))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		_, _ = w.Write(data)
	}
}
