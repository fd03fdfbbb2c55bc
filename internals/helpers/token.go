// file: internals/helpers/token.go
package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// GetUserIDFromToken mengambil user_id dari JWT claims yang sudah dihydrate
// oleh middleware AuthJWT (c.Locals("jwt_claims")).
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := c.Locals("jwt_claims").(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	return id, nil
}

// IsAdminFromToken membaca flag is_admin dari claims.
func IsAdminFromToken(c *fiber.Ctx) bool {
	claims, ok := c.Locals("jwt_claims").(jwt.MapClaims)
	if !ok {
		return false
	}
	v, _ := claims["is_admin"].(bool)
	return v
}
