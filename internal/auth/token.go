package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rakshi2609/Dr-Help-2/internal/httperr"
)

// Identity is the claims value a verified token resolves to. It is the sole
// source of truth for who the caller is and which role they hold; role values
// supplied in request bodies are never trusted.
type Identity struct {
	AccountID uint
	Role      string
}

// TokenService signs and verifies the bearer tokens issued at login and
// registration. Tokens are stateless: nothing revisits the role before expiry
// and there is no revocation list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Generate mints an HS256 token binding the account id and role.
func (s *TokenService) Generate(accountID uint, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(accountID), 10),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and resolves the caller identity.
// Every failure collapses into ErrAuthentication; the caller learns nothing
// about why the token was rejected.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, httperr.ErrAuthentication
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, httperr.ErrAuthentication
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return Identity{}, httperr.ErrAuthentication
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return Identity{}, httperr.ErrAuthentication
	}

	return Identity{AccountID: uint(id), Role: role}, nil
}
