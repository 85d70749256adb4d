package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("недействительный токен")

// TokenClaims — результат успешной проверки токена.
type TokenClaims struct {
	AdminID int
}

// GenerateToken создаёт подписанный токен сессии. В claims кладём только id.
func GenerateToken(secret string, adminID int, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken проверяет подпись и срок действия. Невалидный токен —
// ожидаемый исход, поэтому возвращаем ошибку, а не паникуем.
func VerifyToken(secret, tokenString string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	adminID, ok := claims["admin_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{AdminID: int(adminID)}, nil
}
