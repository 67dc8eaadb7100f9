package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/middleware"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
	"github.com/noteshare/noteshare-backend/pkg/utils"
)

type NoteHandler struct {
	noteService *service.NoteService
	validator   *utils.Validator
}

func NewNoteHandler(noteService *service.NoteService, validator *utils.Validator) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		validator:   validator,
	}
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	q := models.NoteListQuery{
		Search:   c.Query("q"),
		Subject:  c.Query("subject"),
		Level:    c.Query("level"),
		MinPrice: parseFloatQuery(c, "min_price"),
		MaxPrice: parseFloatQuery(c, "max_price"),
		Sort:     c.Query("sort", "created_at"),
		Order:    c.Query("order", "desc"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
	}

	resp, err := h.noteService.List(q)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(resp, ""))
}

func (h *NoteHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid note ID"))
	}

	note, err := h.noteService.GetPublished(uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(note, ""))
}

func (h *NoteHandler) Upload(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid price"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("file is required"))
	}
	if err := h.validator.Var(fileHeader.Header.Get("Content-Type"), "supported_note_file"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("unsupported file type"))
	}

	note, err := h.noteService.Upload(user, service.UploadNoteInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Subject:     c.FormValue("subject"),
		Level:       c.FormValue("level"),
		Price:       price,
	}, fileHeader)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(note, "Note uploaded and pending review"))
}

func (h *NoteHandler) Download(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid note ID"))
	}

	resp, err := h.noteService.Download(user, uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(resp, ""))
}

// DownloadByToken streams a locally stored file gated by a signed token.
func (h *NoteHandler) DownloadByToken(c *fiber.Ctx) error {
	rc, claims, err := h.noteService.OpenByToken(c.Params("token"))
	if err != nil {
		return serviceError(c, err)
	}
	defer rc.Close()

	c.Set(fiber.HeaderContentType, claims.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+claims.FileName+`"`)
	return c.SendStream(rc)
}

func (h *NoteHandler) MyNotes(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	notes, err := h.noteService.GetSellerNotes(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(notes, ""))
}

func (h *NoteHandler) Reviews(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid note ID"))
	}

	reviews, err := h.noteService.GetReviews(uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(reviews, ""))
}

func (h *NoteHandler) CreateReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid note ID"))
	}

	var req models.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	review, err := h.noteService.CreateReview(user, uint(id), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(review, "Review created"))
}

func parseFloatQuery(c *fiber.Ctx, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0
	}
	return v
}
