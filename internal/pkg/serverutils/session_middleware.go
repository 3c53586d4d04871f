package serverutils

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookieName = "concierge_session"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return []byte(secret)
}

// SessionMiddleware guarantees every request carries a session id. A valid
// cookie is decoded; a missing or tampered one gets a fresh anonymous id.
// The dialogue layer decides what an anonymous session may do.
func SessionMiddleware(ctx *fiber.Ctx) error {
	if raw := ctx.Cookies(sessionCookieName); raw != "" {
		if sid, ok := parseSessionToken(raw); ok {
			ctx.Locals("session_id", sid)
			return ctx.Next()
		}
	}

	sid := uuid.New().String()
	setSessionCookie(ctx, sid)
	ctx.Locals("session_id", sid)
	return ctx.Next()
}

// SessionID reads the id placed by SessionMiddleware
func SessionID(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals("session_id").(string)
	return sid
}

func parseSessionToken(raw string) (string, bool) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

func setSessionCookie(ctx *fiber.Ctx, sid string) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	if err != nil {
		return
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

// ClearSessionCookie drops the session cookie on logout
func ClearSessionCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(-time.Hour),
	})
}
