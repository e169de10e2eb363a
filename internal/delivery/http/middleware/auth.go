package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/station-directory/internal/pkg/errors"
	"github.com/station-directory/internal/pkg/utils"
)

// SessionClaims - клеймы сессии внешнего identity-провайдера.
// Сервису из них нужен только uid - им штампуется created_by.
type SessionClaims struct {
	UID         string `json:"uid"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// Auth - middleware проверки Bearer-токена сессии. Выпуск и отзыв
// токенов - зона ответственности identity-провайдера, здесь только
// верификация подписи.
func Auth(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		claims := &SessionClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.ErrUnauthorized
			}
			return secretBytes, nil
		})
		if err != nil || !token.Valid || claims.UID == "" {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		c.Locals("user_id", claims.UID)
		return c.Next()
	}
}
