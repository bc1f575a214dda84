package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"quiz-storefront/internal/domain"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie = "admin_session"
	adminSubject  = "admin"
)

// AdminAuth checks the admin password and issues signed session cookies.
type AdminAuth struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAdminAuth hashes the admin password once. An empty secret gets a random one,
// so sessions do not survive a restart.
func NewAdminAuth(password, secret string, ttl time.Duration) (*AdminAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if secret == "" {
		buf := make([]byte, 24)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminAuth{hash: hash, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Login returns a session token when password matches.
func (a *AdminAuth) Login(password string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: incorrect password", domain.ErrUnauthorized)
	}
	expires := a.now().Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   adminSubject,
		IssuedAt:  a.now().Unix(),
		ExpiresAt: expires.Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expires, nil
}

// Validate checks a session token's signature, subject and expiry.
func (a *AdminAuth) Validate(raw string) error {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject != adminSubject {
		return fmt.Errorf("%w: invalid session", domain.ErrUnauthorized)
	}
	return nil
}

// Middleware rejects requests without a valid admin session cookie.
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: login required", domain.ErrUnauthorized))
			return
		}
		if err := a.Validate(cookie.Value); err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
