package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crewbase/project-tracker-api/internal/authz"
	"github.com/crewbase/project-tracker-api/internal/models"
)

var (
	// ErrExpired is returned when a token's embedded expiry has passed.
	ErrExpired = errors.New("token has expired")
	// ErrInvalid is returned for malformed tokens, wrong signatures, and
	// unexpected signing methods.
	ErrInvalid = errors.New("token is invalid")
)

// Claims embeds the user identity captured at issuance time.
type Claims struct {
	UserID   uint64            `json:"user_id"`
	Username string            `json:"username"`
	Role     models.GlobalRole `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed session tokens. The secret is fixed
// for the process lifetime; rotation happens via redeploy.
type Service struct {
	secret        []byte
	ttl           time.Duration
	refreshWindow time.Duration
}

// NewService creates a token Service with the given signing secret, token
// lifetime, and sliding-session refresh window.
func NewService(secret string, ttl, refreshWindow time.Duration) *Service {
	return &Service{
		secret:        []byte(secret),
		ttl:           ttl,
		refreshWindow: refreshWindow,
	}
}

// Issue produces a signed, time-limited token embedding the user's id,
// username, and global role.
func (s *Service) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token, returning the principal it embeds.
func (s *Service) Verify(tokenString string) (*authz.Principal, *Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, ErrExpired
		}
		return nil, nil, ErrInvalid
	}
	if !token.Valid {
		return nil, nil, ErrInvalid
	}

	principal := &authz.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	return principal, claims, nil
}

// ShouldRefresh reports whether a verified token is close enough to expiry
// that a replacement should be issued. Old tokens stay valid until their
// own expiry; there is no revocation list.
func (s *Service) ShouldRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < s.refreshWindow
}

// Refresh issues a replacement token carrying the same principal.
func (s *Service) Refresh(claims *Claims) (string, error) {
	user := &models.User{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	return s.Issue(user)
}
