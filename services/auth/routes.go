package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"telechan-backend/lib/httputil"
	"telechan-backend/services/auth/db"

	"github.com/go-chi/chi/v5"
)

const WebSessionCookie = "telechan_web_session"
const ExtSessionCookie = "telechan_ext_session"

func (s Service) RegisterRoutes(r chi.Router) {
	r.Post("/auth/telegram", s.handleTelegramLogin())
	r.Post("/auth/logout", s.handleLogout())
	r.Get("/auth/me", s.handleMe())
	r.Post("/auth/ext/session", s.handleExtSession())
	r.Get("/auth/ext/me", s.handleExtMe())
}

// PublicUser is the subset of a user row that goes over the wire.
type PublicUser struct {
	ID         string  `json:"id"`
	Username   *string `json:"username"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	PhotoUrl   *string `json:"photo_url"`
	LoginCount int64   `json:"login_count"`
	UserType   string  `json:"user_type"`
	Restricted bool    `json:"restricted"`
	IsAdmin    bool    `json:"is_admin"`
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func publicUser(user db.User) PublicUser {
	return PublicUser{
		ID:         user.TelegramID,
		Username:   nullable(user.Username),
		FirstName:  nullable(user.FirstName),
		LastName:   nullable(user.LastName),
		PhotoUrl:   nullable(user.PhotoUrl),
		LoginCount: user.LoginCount,
		UserType:   user.UserType,
		Restricted: user.Restricted != 0,
		IsAdmin:    user.IsAdmin != 0,
	}
}

type SessionInfo struct {
	SessionKey string `json:"session_key"`
	ExpiresAt  string `json:"expires_at"`
}

func sessionInfo(session db.Session) SessionInfo {
	return SessionInfo{
		SessionKey: session.SessionKey,
		ExpiresAt:  time.Unix(session.ExpiresAt, 0).UTC().Format(time.RFC3339),
	}
}

func setSessionCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

type loginRequest struct {
	User map[string]any `json:"user"`
}

type loginResponse struct {
	Ok            bool        `json:"ok"`
	User          PublicUser  `json:"user"`
	WebSessionKey string      `json:"web_session_key,omitempty"`
	Session       SessionInfo `json:"session"`
}

func (s Service) handleTelegramLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		var req loginRequest
		if err := decoder.Decode(&req); err != nil {
			httputil.BadRequest(w, "malformed request body")
			return
		}

		user, session, err := s.Login(
			r.Context(), loginFields(req.User),
			r.UserAgent(), WebFrontend, WebSessionTTL,
		)
		if errors.Is(err, ErrInvalidLogin) || errors.Is(err, ErrStaleLogin) {
			httputil.BadRequest(w, "invalid telegram login")
			return
		}
		if err != nil {
			httputil.InternalError(w, "failed to log in")
			return
		}

		setSessionCookie(w, WebSessionCookie, session.SessionKey, WebSessionTTL)
		httputil.OK(w, loginResponse{
			Ok:            true,
			User:          publicUser(user),
			WebSessionKey: session.SessionKey,
			Session:       sessionInfo(session),
		})
	}
}

type sessionKeyRequest struct {
	SessionKey string `json:"session_key"`
}

func (s Service) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessionKeyRequest
		json.NewDecoder(r.Body).Decode(&req)

		if err := s.Logout(r.Context(), req.SessionKey); err != nil {
			httputil.InternalError(w, "failed to log out")
			return
		}

		clearSessionCookie(w, WebSessionCookie)
		clearSessionCookie(w, ExtSessionCookie)
		httputil.OK(w, map[string]bool{"ok": true})
	}
}

func (s Service) whoami(w http.ResponseWriter, r *http.Request, cookieName string) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		httputil.Unauthorized(w, "no session cookie")
		return
	}

	session, err := s.ResolveSession(r.Context(), cookie.Value)
	if errors.Is(err, ErrInvalidSession) {
		clearSessionCookie(w, cookieName)
		httputil.Unauthorized(w, "session invalid")
		return
	}
	if err != nil {
		httputil.InternalError(w, "failed to resolve session")
		return
	}

	user, err := s.GetUser(r.Context(), session.TelegramID)
	if err != nil {
		clearSessionCookie(w, cookieName)
		httputil.Unauthorized(w, "user not found")
		return
	}

	httputil.OK(w, loginResponse{
		Ok:      true,
		User:    publicUser(user),
		Session: sessionInfo(session),
	})
}

func (s Service) handleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.whoami(w, r, WebSessionCookie)
	}
}

func (s Service) handleExtMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.whoami(w, r, ExtSessionCookie)
	}
}

func (s Service) handleExtSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessionKeyRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.SessionKey == "" {
			httputil.BadRequest(w, "missing session_key")
			return
		}

		user, session, err := s.AttachExtension(r.Context(), req.SessionKey)
		if errors.Is(err, ErrInvalidSession) {
			httputil.Unauthorized(w, "invalid or expired session_key")
			return
		}
		if errors.Is(err, ErrUnknownUser) {
			httputil.NotFound(w, "user not found for this session")
			return
		}
		if err != nil {
			httputil.InternalError(w, "failed to attach extension session")
			return
		}

		setSessionCookie(w, ExtSessionCookie, session.SessionKey, ExtSessionTTL)
		httputil.OK(w, loginResponse{
			Ok:      true,
			User:    publicUser(user),
			Session: sessionInfo(session),
		})
	}
}
