package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/models"
)

const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type TokenPair struct {
	AccessToken      string    `json:"token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"-"`
}

// TokenClaims is the typed view of the claims we put in a JWT.
type TokenClaims struct {
	UserID    uint
	Role      models.Role
	TokenID   string
	Type      string
	ExpiresAt time.Time
}

func IssueTokens(cfg config.Config, user *models.User) (*TokenPair, error) {
	now := time.Now()
	pair := &TokenPair{
		AccessExpiresAt:  now.Add(time.Duration(cfg.JWTTTLHours) * time.Hour),
		RefreshExpiresAt: now.Add(time.Duration(cfg.RefreshTTLHours) * time.Hour),
	}

	var err error
	pair.AccessToken, err = sign(cfg.JWTSecret, jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"type": AccessTokenType,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  pair.AccessExpiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	pair.RefreshToken, err = sign(cfg.JWTSecret, jwt.MapClaims{
		"id":   user.ID,
		"type": RefreshTokenType,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  pair.RefreshExpiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return pair, nil
}

func sign(secret string, claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry of raw and returns its claims.
func ParseToken(secret, raw string) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return ClaimsFromMap(claims)
}

// ClaimsFromMap extracts TokenClaims from already verified map claims.
func ClaimsFromMap(claims jwt.MapClaims) (*TokenClaims, error) {
	id, err := extractUserID(claims["id"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	out := &TokenClaims{UserID: id}
	out.Role = models.Role(stringClaim(claims, "role"))
	out.TokenID = stringClaim(claims, "jti")
	out.Type = stringClaim(claims, "type")
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// extractUserID accepts the numeric forms encoding/json may produce.
func extractUserID(v interface{}) (uint, error) {
	switch id := v.(type) {
	case float64:
		return uint(id), nil
	case string:
		parsed, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	case nil:
		return 0, errors.New("no ID found in claims")
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}
