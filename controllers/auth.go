package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/utils"
)

type AuthController struct {
	svc services.IServiceManager
	cfg config.Config
}

func NewAuthController(svc services.IServiceManager, cfg config.Config) *AuthController {
	return &AuthController{svc: svc, cfg: cfg}
}

// Register handles user registration
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	user, err := ctl.svc.Auth().Register(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login checks the credentials, sets the session cookie and returns the
// token pair for API clients.
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	user, err := ctl.svc.Auth().Login(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return ctl.respondWithTokens(c, user)
}

// Logout revokes the current access token and clears the session cookie.
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals(middleware.LocalTokenID).(string)
	expiresAt, _ := c.Locals(middleware.LocalTokenExp).(time.Time)
	if err := ctl.svc.Auth().Logout(c.UserContext(), tokenID, expiresAt); err != nil {
		return utils.SendError(c, err)
	}

	c.ClearCookie(ctl.cfg.SessionCookie)
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// RefreshToken exchanges a refresh token for a new pair. Each refresh
// token can be exchanged once.
func (ctl *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req models.RefreshRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	claims, err := utils.ParseToken(ctl.cfg.JWTSecret, req.RefreshToken)
	if err != nil || claims.Type != utils.RefreshTokenType {
		return utils.SendError(c, utils.ErrInvalidToken)
	}
	if err := ctl.svc.Auth().ConsumeToken(c.UserContext(), claims.TokenID, claims.ExpiresAt); err != nil {
		return utils.SendError(c, err)
	}

	user, err := ctl.svc.Auth().GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.SendError(c, utils.ErrInvalidToken)
	}
	return ctl.respondWithTokens(c, user)
}

// GetUserProfile returns the current user's profile
func (ctl *AuthController) GetUserProfile(c *fiber.Ctx) error {
	user, err := ctl.svc.Auth().GetUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(user)
}

func (ctl *AuthController) UpdateUserProfile(c *fiber.Ctx) error {
	var req models.UpdateUserRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	user, err := ctl.svc.Auth().UpdateUser(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(user)
}

// UploadProfilePicture expects the image in the "picture" form field.
func (ctl *AuthController) UploadProfilePicture(c *fiber.Ctx) error {
	file, filename, err := OpenFormFile(c, "picture")
	if err != nil {
		return utils.SendError(c, err)
	}
	if file == nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "picture file is required",
			Error:   "Bad Request",
		})
	}
	defer file.Close()

	user, err := ctl.svc.Auth().UploadProfilePicture(c.UserContext(), middleware.UserID(c), file, filename)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(user)
}

func (ctl *AuthController) respondWithTokens(c *fiber.Ctx, user *models.User) error {
	pair, err := utils.IssueTokens(ctl.cfg, user)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     ctl.cfg.SessionCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   ctl.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(models.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *user,
	})
}
