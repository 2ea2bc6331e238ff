package handler

import (
	"net/http"
	"strings"

	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

type TranslateInput struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

// HandleTranslate passes text through to the configured translation service.
func HandleTranslate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input TranslateInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, customErr)
			return
		}

		if strings.TrimSpace(input.Text) == "" || strings.TrimSpace(input.Target) == "" {
			resp.RespondError(w, errs.NewError(errs.ErrInvalidParams))
			return
		}

		translated, err := deps.Translator.Translate(r.Context(), input.Text, input.Target)
		if err != nil {
			logx.Warn("translation failed", "target", input.Target, "error", err.Error())
			resp.RespondError(w, errs.NewError(errs.ErrTranslateFailed))
			return
		}

		resp.RespondSuccess(w, map[string]string{"translatedText": translated})
	}
}
