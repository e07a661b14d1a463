package jwt

import (
	"errors"
	"fmt"
	"time"

	"lightbox/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims полезная нагрузка access-токена фотографа
type Claims struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

func NewToken(user models.User, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.ID.String()
	claims["email"] = user.Email
	claims["admin"] = user.IsAdmin
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()
	claims["jti"] = uuid.NewString()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken проверяет подпись и срок действия, возвращает claims
func ParseToken(tokenString, secret string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return ClaimsFromMap(mc)
}

// ClaimsFromMap достает claims из уже проверенного токена (echo-jwt кладет его в контекст)
func ClaimsFromMap(mc jwt.MapClaims) (Claims, error) {
	rawID, _ := mc["uid"].(string)
	uid, err := uuid.Parse(rawID)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	email, _ := mc["email"].(string)
	admin, _ := mc["admin"].(bool)

	return Claims{UserID: uid, Email: email, IsAdmin: admin}, nil
}
