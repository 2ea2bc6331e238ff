/*
Package handler provides HTTP handler functions for account registration and sessions.
*/
package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"relaychat/internal/app/store"
	"relaychat/internal/app/user"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

const (
	minPasswordLength = 6

	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72

	maxUsernameLength = 32
)

type CredentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountOutput is returned by register and login.
type AccountOutput struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// HandleRegister creates an account and starts a session for it.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Pow.Redeem(r) {
			logx.Warn("register rejected: missing or invalid proof token")
			resp.RespondError(w, errs.NewError(errs.ErrPowChallengeRequired))
			return
		}

		var input CredentialsInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, customErr)
			return
		}

		username := strings.TrimSpace(input.Username)
		if username == "" || input.Password == "" || utf8.RuneCountInString(username) > maxUsernameLength {
			resp.RespondError(w, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		if n := len(input.Password); n < minPasswordLength || n > maxPasswordLength {
			resp.RespondError(w, errs.NewError(errs.ErrInvalidPassword, minPasswordLength, maxPasswordLength))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, errs.NewError(errs.ErrUnknown, err))
			return
		}

		account, err := deps.Store.CreateUser(r.Context(), username, string(hashedPassword))
		if err != nil {
			if errors.Is(err, store.ErrUsernameTaken) {
				logx.Warn("registration conflict: username already exists", "username", username)
				resp.RespondError(w, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user")
			resp.RespondError(w, errs.NewError(errs.ErrUnknown))
			return
		}

		if !startSession(w, deps, account.Identity()) {
			return
		}

		logx.Info("user registered", "user_id", account.ID)
		resp.RespondCreated(w, AccountOutput{ID: account.ID, Username: account.Username})
	}
}

// HandleLogin verifies credentials and starts a session.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CredentialsInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, customErr)
			return
		}

		account, err := deps.Store.FindUserByUsername(r.Context(), strings.TrimSpace(input.Username))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "login: user fetch failed", "username", input.Username)
			resp.RespondError(w, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "username", input.Username)
			resp.RespondError(w, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if !startSession(w, deps, account.Identity()) {
			return
		}

		resp.RespondSuccess(w, AccountOutput{ID: account.ID, Username: account.Username})
	}
}

// HandleLogout clears the session cookie.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, sessionCookie("", -1))
		resp.RespondSuccess(w, nil)
	}
}

// HandleGetProfile returns the identity of the current session.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.IdentityFromContext(r.Context())
		if identity == nil {
			resp.RespondError(w, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, identity)
	}
}

// startSession signs a token for u and sets it as the session cookie.
// On failure the error response is already written.
func startSession(w http.ResponseWriter, deps *AppDeps, u user.User) bool {
	token, err := jwt.GenerateToken(u, deps.Config.JWTSecret, jwt.SessionExpiration)
	if err != nil {
		logx.Error(err, "jwt generation failed", "user_id", u.ID)
		resp.RespondError(w, errs.NewError(errs.ErrUnknown))
		return false
	}

	http.SetCookie(w, sessionCookie(token, int(jwt.SessionExpiration.Seconds())))
	return true
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     jwt.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
