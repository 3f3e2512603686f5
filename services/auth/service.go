package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"telechan-backend/services/auth/db"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"

	_ "modernc.org/sqlite"
)

const WebFrontend = "web_app"
const ExtFrontend = "extension"

const WebSessionTTL = time.Hour * 24 * 7
const ExtSessionTTL = time.Hour * 24

// widget payloads older than this are replayable and get rejected
const loginMaxAge = time.Hour * 24

const sessionKeyLength = 43

var ErrInvalidSession = fmt.Errorf("invalid or expired session")
var ErrUnknownUser = fmt.Errorf("no user exists for this session")

type Options struct {
	BotToken string
}

type Service struct {
	db     *sql.DB
	qry    *db.Queries
	config Options
}

func NewService(ctx context.Context, database *sql.DB, options Options) Service {
	s := Service{
		db:     database,
		qry:    db.New(database),
		config: options,
	}
	go s.cleanupSessionsDaemon(ctx)
	return s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Login verifies a widget payload, upserts the user and opens a fresh
// session, invalidating any previous valid session on the same frontend.
func (s Service) Login(ctx context.Context, fields map[string]string, userAgent, frontend string, ttl time.Duration) (db.User, db.Session, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	err := VerifyLoginFields(fields, s.config.BotToken, loginMaxAge, time.Now())
	if err != nil {
		span.SetStatus(codes.Error, "login verification failed")
		return db.User{}, db.Session{}, err
	}
	if fields["id"] == "" {
		return db.User{}, db.Session{}, ErrInvalidLogin
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return db.User{}, db.Session{}, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	now := time.Now().Unix()
	user, err := txqry.UpsertUserLogin(ctx, db.UpsertUserLoginParams{
		TelegramID:         fields["id"],
		Username:           nullString(fields["username"]),
		FirstName:          nullString(fields["first_name"]),
		LastName:           nullString(fields["last_name"]),
		PhotoUrl:           nullString(fields["photo_url"]),
		CreatedAt:          now,
		UpdatedAt:          now,
		LastLoginAt:        now,
		LastLoginSource:    nullString("telegram_widget"),
		LastLoginUserAgent: nullString(userAgent),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert user")
		return db.User{}, db.Session{}, err
	}

	session, err := s.createSession(ctx, txqry, user.TelegramID, frontend, userAgent, ttl)
	if err != nil {
		return db.User{}, db.Session{}, err
	}

	err = tx.Commit()
	if err != nil {
		return db.User{}, db.Session{}, err
	}

	return user, session, nil
}

func (s Service) createSession(ctx context.Context, txqry *db.Queries, telegramID, frontend, userAgent string, ttl time.Duration) (db.Session, error) {
	ctx, span := tracer.Start(ctx, "createSession")
	defer span.End()

	// one valid session per (user, frontend)
	err := txqry.InvalidateUserSessions(ctx, db.InvalidateUserSessionsParams{
		TelegramID: telegramID,
		Frontend:   frontend,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to invalidate previous sessions")
		return db.Session{}, err
	}

	key, err := random.String(sessionKeyLength)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate session key")
		return db.Session{}, err
	}

	now := time.Now()
	err = txqry.CreateSession(ctx, db.CreateSessionParams{
		SessionKey: key,
		TelegramID: telegramID,
		Frontend:   frontend,
		UserAgent:  nullString(userAgent),
		CreatedAt:  now.Unix(),
		ExpiresAt:  now.Add(ttl).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert session row")
		return db.Session{}, err
	}

	return txqry.GetSession(ctx, key)
}

// ResolveSession looks up a session key and returns the row only while it is
// valid and unexpired. Expiry invalidates the row on sight.
func (s Service) ResolveSession(ctx context.Context, key string) (db.Session, error) {
	if key == "" {
		return db.Session{}, ErrInvalidSession
	}

	session, err := s.qry.GetSession(ctx, key)
	if err == sql.ErrNoRows {
		return db.Session{}, ErrInvalidSession
	}
	if err != nil {
		return db.Session{}, err
	}
	if session.Valid == 0 {
		return db.Session{}, ErrInvalidSession
	}
	if session.ExpiresAt < time.Now().Unix() {
		err := s.qry.InvalidateSession(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "failed to invalidate expired session", "err", err)
		}
		return db.Session{}, ErrInvalidSession
	}

	return session, nil
}

func (s Service) Logout(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.qry.InvalidateSession(ctx, key)
}

// AttachExtension validates a web session key and hands it to the browser
// extension, re-labeling the session's frontend.
func (s Service) AttachExtension(ctx context.Context, key string) (db.User, db.Session, error) {
	ctx, span := tracer.Start(ctx, "AttachExtension")
	defer span.End()

	session, err := s.ResolveSession(ctx, key)
	if err != nil {
		return db.User{}, db.Session{}, err
	}

	user, err := s.qry.GetUser(ctx, session.TelegramID)
	if err == sql.ErrNoRows {
		return db.User{}, db.Session{}, ErrUnknownUser
	}
	if err != nil {
		return db.User{}, db.Session{}, err
	}

	err = s.qry.SetSessionFrontend(ctx, db.SetSessionFrontendParams{
		Frontend:   ExtFrontend,
		SessionKey: key,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to re-label session frontend")
		return db.User{}, db.Session{}, err
	}
	session.Frontend = ExtFrontend

	return user, session, nil
}

func (s Service) GetUser(ctx context.Context, telegramID string) (db.User, error) {
	user, err := s.qry.GetUser(ctx, telegramID)
	if err == sql.ErrNoRows {
		return db.User{}, ErrUnknownUser
	}
	return user, err
}

func (s Service) cleanupSessionsDaemon(ctx context.Context) {
	slog.InfoContext(ctx, "start daemon", "task", "delete expired sessions every 30 minutes")

	ticker := time.NewTicker(time.Minute * 30)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := s.qry.DeleteSessionsBefore(ctx, time.Now().Unix())
			if err != nil {
				slog.WarnContext(ctx, "failed to delete expired sessions", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
