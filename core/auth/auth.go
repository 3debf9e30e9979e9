// Package auth turns the session issued by the identity service into claims.
// It performs no credential checks of its own.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/config"
	"github.com/irsalhamdi/e-commerce-shop/core/claims"
	"github.com/jmoiron/sqlx"
)

const (
	userIDKey = "userID"
	emailKey  = "email"
	roleKey   = "role"
)

// NewSessionManager returns a session manager backed by the sessions table,
// which the identity service writes to. stop ends the expired session sweep.
func NewSessionManager(db *sqlx.DB, cfg config.Session) (sm *scs.SessionManager, stop func()) {
	store := postgresstore.NewWithCleanupInterval(db.DB, cfg.CleanupInterval)

	sm = scs.New()
	sm.Store = store
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = cfg.CookieName

	return sm, store.StopCleanup
}

// LoadSession loads the session referenced by the request cookie into the
// request context. Sessions are read only here.
func LoadSession(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var token string
			if c, err := r.Cookie(sm.Cookie.Name); err == nil {
				token = c.Value
			}

			ctx, err := sm.Load(ctx, token)
			if err != nil {
				return fmt.Errorf("loading session: %w", err)
			}

			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

func Authenticate(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm := fromSession(ctx, sm)
			if clm.UserID == "" {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			ctx = claims.Set(ctx, clm)
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

func Admin(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm := fromSession(ctx, sm)
			if clm.UserID == "" {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			if clm.Role != claims.RoleAdmin {
				err := fmt.Errorf("user[%s] is not an admin", clm.UserID)
				return weberr.NewError(err, "forbidden", http.StatusForbidden)
			}

			ctx = claims.Set(ctx, clm)
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

// Issue stores clm in a fresh session and returns its token. The identity
// service shares the session store and calls this after a successful login.
func Issue(ctx context.Context, sm *scs.SessionManager, clm claims.Claims) (string, time.Time, error) {
	ctx, err := sm.Load(ctx, "")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("creating session: %w", err)
	}

	sm.Put(ctx, userIDKey, clm.UserID)
	sm.Put(ctx, emailKey, clm.Email)
	sm.Put(ctx, roleKey, clm.Role)

	token, expiry, err := sm.Commit(ctx)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("committing session: %w", err)
	}
	return token, expiry, nil
}

func fromSession(ctx context.Context, sm *scs.SessionManager) claims.Claims {
	return claims.Claims{
		UserID: sm.GetString(ctx, userIDKey),
		Email:  sm.GetString(ctx, emailKey),
		Role:   sm.GetString(ctx, roleKey),
	}
}
