package middleware

import (
	"errors"
	"strings"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/jwt"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// actorKey is the Locals key holding the *domain.Actor of a request
const actorKey = "actor"

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFrom(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		setActor(c, claims)
		return c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is present and lets
// anonymous requests through
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := tokenFrom(c); accessToken != "" {
			if claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret); err == nil {
				setActor(c, claims)
			}
		}
		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		if actor == nil {
			return response.Unauthorized(c, "Access token required")
		}

		for _, allowedRole := range allowedRoles {
			if actor.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows admin and superadmin
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleSuperAdmin)
}

// StaffOnly allows officers, admins and superadmins
func StaffOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleOfficer, domain.RoleAdmin, domain.RoleSuperAdmin)
}

// ActorFrom returns the authenticated actor or nil
func ActorFrom(c *fiber.Ctx) *domain.Actor {
	actor, _ := c.Locals(actorKey).(*domain.Actor)
	return actor
}

// tokenFrom reads the access_token cookie, then the bearer header
func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func setActor(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals(actorKey, &domain.Actor{
		Identity:   claims.UserID,
		Role:       domain.Role(claims.Role),
		NationalID: claims.NationalID,
		OfficerID:  claims.OfficerID,
	})
	c.Locals("userID", claims.UserID)
	c.Locals("role", claims.Role)
}
