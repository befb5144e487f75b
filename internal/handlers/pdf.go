package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/viveksanandiya/pdf-annotator/internal/middleware"
	"github.com/viveksanandiya/pdf-annotator/internal/models"
	"github.com/viveksanandiya/pdf-annotator/internal/storage"
	"github.com/viveksanandiya/pdf-annotator/pkg/logger"
	"github.com/viveksanandiya/pdf-annotator/pkg/utils"
	"gorm.io/gorm"
)

// MaxUploadSize is the payload ceiling enforced before any bytes are written.
const MaxUploadSize = 50 << 20 // 50 MiB

type PDFHandler struct {
	DB      *gorm.DB
	Storage storage.Store
}

func NewPDFHandler(db *gorm.DB, store storage.Store) *PDFHandler {
	return &PDFHandler{DB: db, Storage: store}
}

type pdfSummary struct {
	UUID         string    `json:"uuid"`
	OriginalName string    `json:"originalName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Upload accepts a single multipart "pdf" field. The blob is written first and
// the metadata record only after; if the record write fails the blob is removed
// so a failed upload leaves nothing behind.
func (h *PDFHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "No PDF file uploaded")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		return utils.Error(c, fiber.StatusBadRequest, "Only PDF files are allowed")
	}

	if fileHeader.Size > MaxUploadSize {
		return utils.Error(c, fiber.StatusBadRequest, "File too large. Maximum size is 50MB.")
	}

	originalName := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	if originalName == "" || originalName == "." {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid filename")
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error saving PDF")
	}
	defer stream.Close()

	id := uuid.New().String()
	storedName := id + ".pdf"

	if err := h.Storage.Save(c.Context(), storedName, stream, fileHeader.Size); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error saving PDF")
	}

	record := models.PDF{
		UUID:         id,
		Filename:     storedName,
		OriginalName: originalName,
		UserID:       currentUser.ID,
		FilePath:     storedName,
	}

	if err := h.DB.Create(&record).Error; err != nil {
		// Compensating delete: no orphaned blob may survive a failed upload.
		if delErr := h.Storage.Delete(c.Context(), storedName); delErr != nil {
			logger.Error("upload_compensating_delete_failed", delErr, map[string]interface{}{
				"stored_name": storedName,
			})
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error saving PDF information")
	}

	logger.InfoWithUser(currentUser.ID.String(), "pdf_uploaded", map[string]interface{}{
		"uuid":          id,
		"original_name": originalName,
		"size":          fileHeader.Size,
	})

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"uuid":     id,
		"filename": originalName,
		"message":  "PDF uploaded successfully",
	})
}

func (h *PDFHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	var pdfs []pdfSummary
	err := h.DB.Model(&models.PDF{}).
		Select("uuid", "original_name", "created_at").
		Where("user_id = ?", currentUser.ID).
		Order("created_at DESC").
		Find(&pdfs).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error fetching PDF list")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"pdfs":  pdfs,
		"count": len(pdfs),
	})
}

func (h *PDFHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	record, err := h.findOwned(c.Params("uuid"), currentUser.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "PDF not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error retrieving PDF")
	}

	reader, err := h.Storage.Open(c.Context(), record.FilePath)
	if err != nil {
		if err == storage.ErrNotExist {
			// Record exists but the blob is gone; surfaced to the caller the
			// same as an unknown id.
			logger.ErrorWithUser(currentUser.ID.String(), "pdf_blob_missing", err, map[string]interface{}{
				"uuid":      record.UUID,
				"file_path": record.FilePath,
			})
			return utils.Error(c, fiber.StatusNotFound, "PDF not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error retrieving PDF")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", record.OriginalName))
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.SendStream(reader)
}

// Delete removes the blob best-effort, then the record, then every highlight
// of the document in the same request.
func (h *PDFHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	record, err := h.findOwned(c.Params("uuid"), currentUser.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "PDF not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Error deleting PDF")
	}

	if err := h.Storage.Delete(c.Context(), record.FilePath); err != nil {
		// Blob cleanup failures never fail the user-facing delete.
		logger.ErrorWithUser(currentUser.ID.String(), "pdf_blob_delete_failed", err, map[string]interface{}{
			"uuid":      record.UUID,
			"file_path": record.FilePath,
		})
	}

	if err := h.DB.Delete(&models.PDF{}, "id = ?", record.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Error deleting PDF")
	}

	cascade := h.DB.Where("pdf_uuid = ? AND user_id = ?", record.UUID, currentUser.ID).
		Delete(&models.Highlight{})
	if cascade.Error != nil {
		logger.ErrorWithUser(currentUser.ID.String(), "highlight_cascade_failed", cascade.Error, map[string]interface{}{
			"uuid": record.UUID,
		})
	}

	logger.InfoWithUser(currentUser.ID.String(), "pdf_deleted", map[string]interface{}{
		"uuid":               record.UUID,
		"highlights_removed": cascade.RowsAffected,
	})

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "PDF deleted successfully",
	})
}

func (h *PDFHandler) findOwned(uuidParam string, ownerID uuid.UUID) (*models.PDF, error) {
	var record models.PDF
	err := h.DB.First(&record, "uuid = ? AND user_id = ?", strings.TrimSpace(uuidParam), ownerID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
