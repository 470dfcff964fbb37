package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxUploadSize caps image uploads at 5MB.
const maxUploadSize = 5 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

var allowedImageMimeTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// AllowedImageFile checks both the extension and the declared content type.
func AllowedImageFile(filename, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedImageExtensions[ext] && allowedImageMimeTypes[strings.ToLower(contentType)]
}

// uploadKindFolder maps the upload type to its storage folder.
func uploadKindFolder(kind string) string {
	switch kind {
	case "restaurant":
		return "restaurants"
	case "logo":
		return "logos"
	default:
		return "foods"
	}
}

// UploadHandler accepts image uploads and returns a retrievable path.
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// UploadImage stores a multipart image under the requested kind's folder.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	if file.Size > maxUploadSize {
		return fiber.NewError(fiber.StatusBadRequest, "image must be 5MB or smaller")
	}

	contentType := file.Header.Get("Content-Type")
	if !AllowedImageFile(file.Filename, contentType) {
		return fiber.NewError(fiber.StatusBadRequest,
			"only image files are allowed (jpeg, jpg, png, gif, webp, svg)")
	}

	folder := uploadKindFolder(c.Query("type"))
	destDir := filepath.Join(h.uploadDir, folder)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	filename := fmt.Sprintf("%s-%s%s",
		strings.TrimSuffix(folder, "s"),
		uuid.New().String(),
		strings.ToLower(filepath.Ext(file.Filename)))

	if err := c.SaveFile(file, filepath.Join(destDir, filename)); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"path": fmt.Sprintf("/uploads/%s/%s", folder, filename),
		},
	})
}
