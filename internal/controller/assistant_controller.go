package controller

import (
	"strconv"

	"ai-filevault-be/internal/dto"
	"ai-filevault-be/internal/pkg/serverutils"
	"ai-filevault-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
	OpenFile(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("process", c.Process)
	h.Get("history", c.History)
	h.Get("suggestions", c.Suggestions)
	h.Get("settings", c.GetSettings)
	h.Patch("settings", c.UpdateSettings)
	h.Post("open-file", c.OpenFile)
}

// Process accepts either a JSON body with text_prompt or a multipart form
// with an "audio" part.
func (c *assistantController) Process(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	input := &service.AssistantInput{}

	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		input.TextPrompt = ctx.FormValue("text_prompt")
		input.ConversationId = ctx.FormValue("conversation_id")
		if raw := ctx.FormValue("include_audio"); raw != "" {
			if include, err := strconv.ParseBool(raw); err == nil {
				input.IncludeAudio = &include
			}
		}

		if fileHeader, err := ctx.FormFile("audio"); err == nil && fileHeader != nil {
			audio, err := fileHeader.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "could not read audio upload")
			}
			defer audio.Close()
			input.Audio = audio
			input.AudioFilename = fileHeader.Filename
		}
	} else {
		var req dto.ProcessTurnRequest
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		input.TextPrompt = req.TextPrompt
		input.ConversationId = req.ConversationId
		input.IncludeAudio = req.IncludeAudio
	}

	// An empty turn (no audio, no text) is handled inside ProcessTurn: it
	// becomes a persisted failed interaction with the canned apology, and
	// the call itself still succeeds.
	res, err := c.assistantService.ProcessTurn(ctx.Context(), userId, input)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Turn processed", res))
}

func (c *assistantController) History(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.GetInteractionHistoryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	res, err := c.assistantService.GetHistory(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetching history", res))
}

func (c *assistantController) Suggestions(ctx *fiber.Ctx) error {
	res := c.assistantService.GetSuggestions(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success fetching suggestions", res))
}

func (c *assistantController) GetSettings(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.assistantService.GetSettings(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetching settings", res))
}

func (c *assistantController) UpdateSettings(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpdateAssistantSettingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.UpdateSettings(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Settings updated", res))
}

func (c *assistantController) OpenFile(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.OpenFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.OpenFile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolving file", res))
}
