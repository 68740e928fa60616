package controller

import (
	"hrms/chat"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatController struct {
	Service *chat.Service
}

func NewChatController(svc *chat.Service) *ChatController {
	return &ChatController{Service: svc}
}

func (cc *ChatController) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	reply, err := cc.Service.Chat(c.UserContext(), req.Message)
	if err != nil {
		return handleError(c, "chat", err)
	}
	return c.JSON(utils.SuccessResponse(reply))
}
