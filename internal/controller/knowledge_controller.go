package controller

import (
	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/pkg/serverutils"
	"aftercare-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	ListByDocument(ctx *fiber.Ctx) error
	DeleteDocument(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("documents", c.Upload)
	h.Get("documents", c.ListByDocument)
	h.Delete("documents", c.DeleteDocument)
}

func (c *knowledgeController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Upload(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document queued for embedding", res))
}

func (c *knowledgeController) ListByDocument(ctx *fiber.Ctx) error {
	title := ctx.Query("title")
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title query parameter is required")
	}

	res, err := c.knowledgeService.ListByDocument(ctx.Context(), title)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list document chunks", res))
}

func (c *knowledgeController) DeleteDocument(ctx *fiber.Ctx) error {
	var req dto.DeleteKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.knowledgeService.DeleteDocument(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete document", nil))
}
