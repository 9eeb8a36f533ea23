package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const actorKey = "actor"

// Claims is the identity carried by a bearer token. The subject is the user id.
type Claims struct {
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	TenantID string   `json:"tenant"`
	Teams    []string `json:"teams,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for actor. Used by tests and local tooling.
func IssueToken(secret, issuer string, actor entities.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:     actor.Name,
		Role:     string(actor.Role),
		TenantID: actor.TenantID,
		Teams:    actor.TeamIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates tokenString and returns the actor it names.
func ParseToken(secret, issuer, tokenString string) (entities.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return entities.Actor{}, fmt.Errorf("%w: %w", entities.ErrUnauthenticated, err)
	}

	role := entities.Role(claims.Role)
	if claims.Subject == "" || claims.TenantID == "" || !role.Valid() {
		return entities.Actor{}, fmt.Errorf("%w: incomplete identity claims", entities.ErrUnauthenticated)
	}

	return entities.Actor{
		ID:       claims.Subject,
		Name:     claims.Name,
		Role:     role,
		TenantID: claims.TenantID,
		TeamIDs:  claims.Teams,
	}, nil
}

// Authenticate resolves the caller from an "Authorization: Bearer" header or,
// for websocket upgrades, a "token" query parameter.
func Authenticate(secret, issuer string, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return unauthorized(c, "missing bearer token")
		}

		actor, err := ParseToken(secret, issuer, tokenString)
		if err != nil {
			log.Debugw("token rejected", "path", c.Path(), "error", err)
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			return unauthorized(c, msg)
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(c *fiber.Ctx) (entities.Actor, bool) {
	actor, ok := c.Locals(actorKey).(entities.Actor)
	return actor, ok
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}

func unauthorized(c *fiber.Ctx, msg string) error {
	var resp api.ErrorResponse
	resp.Error.Code = api.UNAUTHENTICATED
	resp.Error.Message = msg
	return c.Status(http.StatusUnauthorized).JSON(resp)
}
