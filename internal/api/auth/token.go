package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rfcorreia/go-identity-service/internal/types"
)

// TokenTTL is the fixed lifetime of every issued token.
const TokenTTL = 24 * time.Hour

// Verification failures carry their cause for diagnostics; all of them
// unwrap to types.ErrUnauthenticated so the HTTP layer maps them to a
// single 401.
var (
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", types.ErrUnauthenticated)
	ErrTokenSignature = fmt.Errorf("%w: invalid token signature", types.ErrUnauthenticated)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", types.ErrUnauthenticated)
)

// Claims are the statements carried by an access token.
type Claims struct {
	UserID int64      `json:"user_id"`
	Email  string     `json:"email"`
	Role   types.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed identity tokens with
// a process-wide secret loaded once at startup.
type TokenService struct {
	secret []byte
	issuer string
}

func NewTokenService(secret []byte, issuer string) *TokenService {
	return &TokenService{
		secret: secret,
		issuer: issuer,
	}
}

// Issue signs a token for the identity, expiring exactly TokenTTL from
// now.
func (s *TokenService) Issue(identity types.Identity) (string, error) {
	return s.issueAt(identity, time.Now())
}

func (s *TokenService) issueAt(identity types.Identity, now time.Time) (string, error) {
	claims := Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry and returns the identity
// the token was issued for.
func (s *TokenService) Verify(tokenString string) (*types.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, fmt.Errorf("%w: %w", types.ErrUnauthenticated, err)
		}
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", types.ErrUnauthenticated)
	}

	return &types.Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
