package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/utils"
)

// Locals set by Protected.
const (
	LocalUserID    = "userID"
	LocalRole      = "role"
	LocalTokenID   = "tokenID"
	LocalTokenExp  = "tokenExp"
	localJWTClaims = "user"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Protected accepts an access token from the Authorization header or the
// session cookie and sets the caller's id and role as locals.
func Protected(cfg config.Config, revoked RevocationChecker) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(cfg.JWTSecret),
		ContextKey:   localJWTClaims,
		TokenLookup:  "header:Authorization,cookie:" + cfg.SessionCookie,
		AuthScheme:   "Bearer",
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(localJWTClaims).(*jwt.Token)
			if !ok {
				return jwtError(c, utils.ErrInvalidToken)
			}
			mapClaims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return jwtError(c, utils.ErrInvalidToken)
			}
			claims, err := utils.ClaimsFromMap(mapClaims)
			if err != nil || claims.Type != utils.AccessTokenType || !claims.Role.Valid() {
				return jwtError(c, utils.ErrInvalidToken)
			}

			isRevoked, err := revoked.IsRevoked(c.UserContext(), claims.TokenID)
			if err != nil {
				return utils.SendError(c, err)
			}
			if isRevoked {
				return jwtError(c, utils.ErrInvalidToken)
			}

			c.Locals(LocalUserID, claims.UserID)
			c.Locals(LocalRole, claims.Role)
			c.Locals(LocalTokenID, claims.TokenID)
			c.Locals(LocalTokenExp, claims.ExpiresAt)
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: "Invalid or expired token",
		Error:   "Unauthorized",
	})
}

// UserID returns the authenticated user's id, or 0.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// Role returns the authenticated user's role, or "".
func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(LocalRole).(models.Role)
	return role
}

// Actor returns the authenticated caller.
func Actor(c *fiber.Ctx) services.Actor {
	return services.Actor{UserID: UserID(c), Role: Role(c)}
}
