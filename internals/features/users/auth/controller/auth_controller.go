// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/users/auth/dto"
	"schoolku_backend/internals/features/users/auth/model"
	helper "schoolku_backend/internals/helpers"
)

const (
	accessTokenTTL  = 2 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthController struct {
	DB *gorm.DB
}

var validateAuth = validator.New()

func signToken(user *model.UserModel, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.UserID.String(),
		"is_admin": user.UserIsAdmin,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// POST /api/auth/login — identifier boleh username atau email.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateAuth.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	var user model.UserModel
	err := h.DB.WithContext(c.UserContext()).
		Where("LOWER(user_name) = ? OR LOWER(user_email) = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// pesan sengaja sama dengan password salah
			return helper.JsonError(c, fiber.StatusUnauthorized, "identifier atau password salah")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "akun dinonaktifkan")
	}
	if !user.CheckPassword(req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "identifier atau password salah")
	}

	access, err := signToken(&user, configs.JWTSecret, accessTokenTTL)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat token")
	}
	refresh, err := signToken(&user, configs.JWTRefreshSecret, refreshTokenTTL)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat token")
	}

	// cookie fallback untuk AuthJWT (AllowCookieFallback)
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    access,
		Expires:  time.Now().Add(accessTokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return helper.JsonOK(c, "login berhasil", dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.UserResponse{
			UserID:      user.UserID,
			UserName:    user.UserName,
			UserEmail:   user.UserEmail,
			UserIsAdmin: user.UserIsAdmin,
		},
	})
}

// POST /api/auth/refresh — tukar refresh token dengan access token baru.
func (h *AuthController) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateAuth.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	tok, err := jwt.Parse(req.RefreshToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helper.JsonError(c, fiber.StatusUnauthorized, "refresh token tidak valid")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "refresh token tidak valid")
	}
	uid, _ := claims["user_id"].(string)

	var user model.UserModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&user, "user_id = ?", uid).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "user tidak ditemukan")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "akun dinonaktifkan")
	}

	access, err := signToken(&user, configs.JWTSecret, accessTokenTTL)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat token")
	}
	return helper.JsonOK(c, "token diperbarui", fiber.Map{"access_token": access})
}

// POST /api/auth/logout — hapus cookie access_token.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return helper.JsonOK(c, "logout berhasil", nil)
}
