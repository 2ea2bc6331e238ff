package handler

import (
	"net/http"

	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

type PowVerifyInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// HandlePowChallenge issues a nonce for the registration proof of work.
func HandlePowChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, map[string]any{
			"enabled":    deps.Pow.Enabled(),
			"nonce":      deps.Pow.Challenge(),
			"difficulty": deps.Pow.Difficulty(),
		})
	}
}

// HandlePowVerify trades a solved challenge for a single-use proof token.
func HandlePowVerify(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PowVerifyInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, customErr)
			return
		}

		if input.Nonce == "" || input.Counter == "" {
			resp.RespondError(w, errs.NewError(errs.ErrInvalidParams))
			return
		}

		token, err := deps.Pow.Solve(input.Nonce, input.Counter)
		if err != nil {
			logx.Warn("proof of work rejected", "error", err.Error())
			resp.RespondError(w, errs.NewError(errs.ErrPowChallengeInvalid))
			return
		}

		resp.RespondSuccess(w, map[string]string{"token": token})
	}
}
