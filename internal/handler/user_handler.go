package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"relaychat/internal/app/store"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/resp"
)

// HandleListPeople returns every registered user.
func HandleListPeople(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		people, err := deps.Store.ListUsers(r.Context())
		if err != nil {
			logx.Error(err, "failed to list users")
			resp.RespondError(w, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, people)
	}
}

// HandleListMessages returns the conversation between the caller and {userId}, oldest first.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.IdentityFromContext(r.Context())
		if identity == nil {
			resp.RespondError(w, errs.NewError(errs.ErrUnauthorized))
			return
		}

		other := strings.TrimSpace(chi.URLParam(r, "userId"))
		if other == "" {
			resp.RespondError(w, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, err := deps.Store.FindMessages(r.Context(), identity.ID, other)
		if err != nil {
			logx.Error(err, "failed to load conversation", "user_id", identity.ID, "other_id", other)
			resp.RespondError(w, errs.NewError(errs.ErrUnknown))
			return
		}
		if messages == nil {
			messages = []store.Message{}
		}

		resp.RespondSuccess(w, messages)
	}
}
