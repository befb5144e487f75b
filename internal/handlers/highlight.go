package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/viveksanandiya/pdf-annotator/internal/middleware"
	"github.com/viveksanandiya/pdf-annotator/internal/models"
	"github.com/viveksanandiya/pdf-annotator/pkg/logger"
	"github.com/viveksanandiya/pdf-annotator/pkg/utils"
	"gorm.io/gorm"
)

type HighlightHandler struct {
	DB *gorm.DB
}

func NewHighlightHandler(db *gorm.DB) *HighlightHandler {
	return &HighlightHandler{DB: db}
}

type createHighlightRequest struct {
	PDFUuid         string              `json:"pdfUuid"`
	PageNumber      int                 `json:"pageNumber"`
	HighlightedText string              `json:"highlightedText"`
	BoundingBox     *models.BoundingBox `json:"boundingBox"`
	Position        *models.Position    `json:"position"`
}

// Create persists one highlight. The document ownership check runs before any
// write; a highlight can never be created against a document the caller does
// not own.
func (h *HighlightHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	var req createHighlightRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "PDF UUID, page number, and highlighted text are required")
	}

	req.PDFUuid = strings.TrimSpace(req.PDFUuid)
	req.HighlightedText = strings.TrimSpace(req.HighlightedText)

	if req.PDFUuid == "" || req.PageNumber < 1 || req.HighlightedText == "" {
		return utils.Error(c, fiber.StatusBadRequest, "PDF UUID, page number, and highlighted text are required")
	}

	if err := h.requireOwnedPDF(req.PDFUuid, currentUser.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "PDF not found or access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error creating highlight")
	}

	highlight := models.Highlight{
		PDFUuid:         req.PDFUuid,
		UserID:          currentUser.ID,
		PageNumber:      req.PageNumber,
		HighlightedText: req.HighlightedText,
	}
	if req.BoundingBox != nil {
		highlight.BoundingBox = *req.BoundingBox
	}
	if req.Position != nil {
		highlight.Position = *req.Position
	}

	if err := h.DB.Create(&highlight).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error creating highlight")
	}

	logger.InfoWithUser(currentUser.ID.String(), "highlight_created", map[string]interface{}{
		"highlight_id": highlight.ID.String(),
		"pdf_uuid":     req.PDFUuid,
		"page_number":  req.PageNumber,
	})

	return utils.JSON(c, fiber.StatusCreated, fiber.Map{
		"highlight": highlight,
		"message":   "Highlight created successfully",
	})
}

// ListByDocument returns every highlight of an owned document, ordered by page
// then creation time.
func (h *HighlightHandler) ListByDocument(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	pdfUuid := strings.TrimSpace(c.Params("pdfUuid"))
	if err := h.requireOwnedPDF(pdfUuid, currentUser.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "PDF not found or access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error retrieving highlights")
	}

	var highlights []models.Highlight
	err := h.DB.Where("pdf_uuid = ? AND user_id = ?", pdfUuid, currentUser.ID).
		Order("page_number ASC, created_at ASC").
		Find(&highlights).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error retrieving highlights")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"highlights": highlights,
		"count":      len(highlights),
	})
}

func (h *HighlightHandler) ListByPage(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	pageNumber, err := strconv.Atoi(c.Params("pageNumber"))
	if err != nil || pageNumber < 1 {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid page number")
	}

	pdfUuid := strings.TrimSpace(c.Params("pdfUuid"))
	if err := h.requireOwnedPDF(pdfUuid, currentUser.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "PDF not found or access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error retrieving page highlights")
	}

	var highlights []models.Highlight
	err = h.DB.Where("pdf_uuid = ? AND user_id = ? AND page_number = ?", pdfUuid, currentUser.ID, pageNumber).
		Order("created_at ASC").
		Find(&highlights).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error retrieving page highlights")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"highlights": highlights,
		"count":      len(highlights),
		"pageNumber": pageNumber,
	})
}

// Update changes the highlighted text; no other field is mutable.
func (h *HighlightHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	var req struct {
		HighlightedText string `json:"highlightedText"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Highlighted text cannot be empty")
	}

	text := strings.TrimSpace(req.HighlightedText)
	if text == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Highlighted text cannot be empty")
	}

	highlight, err := h.findOwned(c.Params("id"), currentUser.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "Highlight not found or access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error updating highlight")
	}

	highlight.HighlightedText = text
	if err := h.DB.Save(highlight).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error updating highlight")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"highlight": highlight,
		"message":   "Highlight updated successfully",
	})
}

func (h *HighlightHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	highlight, err := h.findOwned(c.Params("id"), currentUser.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "Highlight not found or access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error deleting highlight")
	}

	if err := h.DB.Delete(&models.Highlight{}, "id = ?", highlight.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error deleting highlight")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Highlight deleted successfully",
	})
}

// DeleteAllForDocument removes every highlight of an owned document and
// reports how many went away; zero is a valid result, not an error.
func (h *HighlightHandler) DeleteAllForDocument(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	pdfUuid := strings.TrimSpace(c.Params("pdfUuid"))
	if err := h.requireOwnedPDF(pdfUuid, currentUser.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "PDF not found or access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error deleting highlights")
	}

	result := h.DB.Where("pdf_uuid = ? AND user_id = ?", pdfUuid, currentUser.ID).
		Delete(&models.Highlight{})
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error deleting highlights")
	}

	logger.InfoWithUser(currentUser.ID.String(), "highlights_bulk_deleted", map[string]interface{}{
		"pdf_uuid":      pdfUuid,
		"deleted_count": result.RowsAffected,
	})

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"deletedCount": result.RowsAffected,
		"message":      "Highlights deleted successfully",
	})
}

// requireOwnedPDF is the API-layer ownership check; highlights reference PDFs
// by public uuid, so there is no storage-layer foreign key backing this.
func (h *HighlightHandler) requireOwnedPDF(pdfUuid string, ownerID uuid.UUID) error {
	var record models.PDF
	return h.DB.Select("id").First(&record, "uuid = ? AND user_id = ?", pdfUuid, ownerID).Error
}

// findOwned treats a malformed id the same as an absent one so the response
// cannot reveal whether a given id exists.
func (h *HighlightHandler) findOwned(idParam string, ownerID uuid.UUID) (*models.Highlight, error) {
	id, err := parseUUID(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var highlight models.Highlight
	if err := h.DB.First(&highlight, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		return nil, err
	}
	return &highlight, nil
}
