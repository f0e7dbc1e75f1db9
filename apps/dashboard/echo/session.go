package echoapi

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/auth"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

var (
	contextManagerKey = "session.manager"
	contextSessionKey = "session"
)

// cookieStore keeps the session in browser cookies named after the auth storage keys.
// Values are base64 encoded: the user is JSON, which is not a valid cookie value.
type cookieStore struct {
	ctx    echo.Context
	secure bool
	values map[string]string // written during the current request
}

var _ auth.Store = (*cookieStore)(nil)

func newCookieStore(ctx echo.Context, secure bool) *cookieStore {
	return &cookieStore{ctx: ctx, secure: secure, values: make(map[string]string)}
}

func (s *cookieStore) Get(key string) (string, error) {
	if v, ok := s.values[key]; ok {
		if v == "" {
			return "", auth.ErrKeyNotFound
		}
		return v, nil
	}
	c, err := s.ctx.Cookie(key)
	if err != nil || c.Value == "" {
		return "", auth.ErrKeyNotFound
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s cookie", key)
	}
	return string(raw), nil
}

func (s *cookieStore) Set(key, value string) error {
	s.values[key] = value
	s.ctx.SetCookie(s.cookie(key, base64.RawURLEncoding.EncodeToString([]byte(value))))
	return nil
}

func (s *cookieStore) Delete(keys ...string) error {
	for _, key := range keys {
		_, written := s.values[key]
		_, err := s.ctx.Cookie(key)
		s.values[key] = ""
		if err != nil && !written { // nothing to expire
			continue
		}
		c := s.cookie(key, "")
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		s.ctx.SetCookie(c)
	}
	return nil
}

func (s *cookieStore) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionMiddleware restores the cookie session of every request and binds its token to the request context,
// so that every call made on behalf of the request is authenticated as its user.
func sessionMiddleware(authn auth.Authenticator, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			mgr := auth.NewManager(newCookieStore(ctx, secure), authn)
			if sess, ok := mgr.Restore(); ok {
				bindToken(ctx, sess.Token)
			}
			ctx.Set(contextManagerKey, mgr)
			return next(ctx)
		}
	}
}

func bindToken(ctx echo.Context, token string) {
	req := ctx.Request()
	ctx.SetRequest(req.WithContext(gatewaysvc.ContextWithToken(req.Context(), token)))
}

// requireRole guards an area of the dashboard; it runs before any data is fetched.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextManager(ctx).RequireRole(role)
			if err != nil {
				return err
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

func getContextManager(ctx echo.Context) *auth.Manager {
	if mgr, ok := ctx.Get(contextManagerKey).(*auth.Manager); ok {
		return mgr
	}
	return auth.NewManager(auth.NewMemoryStore(), nil)
}

func getContextSession(ctx echo.Context) (auth.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(auth.Session); ok {
		return sess, nil
	}
	return getContextManager(ctx).Require()
}

func clearSession(ctx echo.Context, secure bool) {
	_ = newCookieStore(ctx, secure).Delete(auth.TokenKey, auth.UserKey)
}
