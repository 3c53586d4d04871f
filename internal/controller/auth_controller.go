package controller

import (
	"file-concierge-be/internal/pkg/serverutils"
	"file-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service   service.IAuthService
	clientURL string
}

func NewAuthController(service service.IAuthService, clientURL string) IAuthController {
	return &authController{
		service:   service,
		clientURL: clientURL,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Get("/login", c.Login)
	r.Get("/getAToken", c.Callback)
	r.Get("/logout", c.Logout)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)
	return ctx.Redirect(c.service.LoginURL(ctx.Context(), sid), fiber.StatusFound)
}

func (c *authController) Callback(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)
	code := ctx.Query("code")
	state := ctx.Query("state")

	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponse(400, "Missing authorization code"))
	}

	if err := c.service.HandleCallback(ctx.Context(), sid, code, state); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(401, err.Error()))
	}

	return ctx.Redirect(c.clientURL, fiber.StatusFound)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)
	if err := c.service.Logout(ctx.Context(), sid); err != nil {
		return err
	}
	serverutils.ClearSessionCookie(ctx)
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out", nil))
}
