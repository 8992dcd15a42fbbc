package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// AdminClaims содержит поля токена администратора.
// Имя администратора хранится в Subject.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет токены администраторов (HS256)
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secret string, expirationHrs int, issuer string) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secret:     []byte(secret),
		expiration: time.Duration(expirationHrs) * time.Hour,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

// GenerateToken создает подписанный токен с subject=username, iat и exp
func (s *JWTService) GenerateToken(username string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.expiration)
	claims := &AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken проверяет подпись, срок действия и издателя токена.
// Возвращает ErrExpiredToken для истекших токенов и ErrUnauthorized для остальных ошибок.
func (s *JWTService) ParseToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc)
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, fmt.Errorf("%w: token is malformed", apperrors.ErrUnauthorized)
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, apperrors.ErrExpiredToken
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				log.Printf("[JWT] Неверная подпись токена (subject=%s)", claims.Subject)
				return nil, fmt.Errorf("%w: signature is invalid", apperrors.ErrUnauthorized)
			}
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", apperrors.ErrUnauthorized, claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", apperrors.ErrUnauthorized)
	}
	return claims, nil
}
