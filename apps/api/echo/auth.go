package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
)

const (
	tokenContextKey = "serviceToken"
	tokenAudience   = "masomo-meet"
)

// Claims represents the authorization claims of a service token.
// Tokens are minted for the clients of the API (the scheduler front-ends) with the admin "token" command.
type Claims struct {
	jwt.StandardClaims
}

// NewClaims returns the claims of a token issued to `subject`, expiring after conf.Server.TokenExpiration.
// A zero expiration never expires.
func NewClaims(conf *core.Config, subject string) *Claims {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:   conf.AppName,
			Subject:  subject,
			Audience: tokenAudience,
			IssuedAt: now.Unix(),
		},
	}
	if conf.Server.TokenExpiration > 0 {
		claims.ExpiresAt = now.Add(conf.Server.TokenExpiration).Unix()
	}
	return claims
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
