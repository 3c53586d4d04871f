package controller

import (
	"file-concierge-be/internal/dto"
	"file-concierge-be/internal/pkg/serverutils"
	"file-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	NewChat(ctx *fiber.Ctx) error
	CheckLogin(ctx *fiber.Ctx) error
	SessionState(ctx *fiber.Ctx) error
	ListChats(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
}

type chatController struct {
	dialogueService service.IDialogueService
	historyService  service.IHistoryService
}

func NewChatController(dialogueService service.IDialogueService, historyService service.IHistoryService) IChatController {
	return &chatController{
		dialogueService: dialogueService,
		historyService:  historyService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Get("/new_chat", c.NewChat)
	r.Get("/check_login", c.CheckLogin)
	r.Get("/session_state", c.SessionState)
	r.Get("/chats", c.ListChats)
	r.Get("/messages/:chat_id", c.ListMessages)
}

// Chat is the dialogue entry point. The response is always 200 with a
// conversational body; failures speak through the intent field.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.dialogueService.HandleChat(ctx.Context(), sid, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) NewChat(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)

	res, err := c.dialogueService.NewChat(ctx.Context(), sid)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(401, "Not logged in"))
	}

	return ctx.JSON(res)
}

func (c *chatController) CheckLogin(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)

	res, err := c.dialogueService.CheckLogin(ctx.Context(), sid)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) SessionState(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)

	res, err := c.dialogueService.SessionState(ctx.Context(), sid)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// ListChats and ListMessages gate on SessionState rather than CheckLogin:
// history reads must not rewind an in-flight selection episode.
func (c *chatController) ListChats(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)

	st, err := c.dialogueService.SessionState(ctx.Context(), sid)
	if err != nil {
		return err
	}
	if st.Email == "" {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(401, "Not logged in"))
	}

	res, err := c.historyService.ListChats(ctx.Context(), st.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) ListMessages(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)
	chatID := ctx.Params("chat_id")

	st, err := c.dialogueService.SessionState(ctx.Context(), sid)
	if err != nil {
		return err
	}
	if st.Email == "" {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(401, "Not logged in"))
	}

	res, err := c.historyService.ListMessages(ctx.Context(), st.Email, chatID)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
