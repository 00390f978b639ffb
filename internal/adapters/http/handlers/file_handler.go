package handlers

import (
	"mime/multipart"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/middleware"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/services"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/pagination"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FileHandler handles attachment upload and metadata endpoints
type FileHandler struct {
	fileService *services.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload stores the multipart "files" field
// @Summary Upload files
// @Description Upload one or more attachments. Open to applicants without an account.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /files/upload [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "No files provided. Please select at least one file to upload.")
	}

	headers := form.File["files"]
	uploads := make([]services.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return response.BadRequest(c, "Invalid file: "+fh.Filename)
		}
		opened = append(opened, f)
		uploads = append(uploads, services.UploadFile{
			OriginalName: fh.Filename,
			ContentType:  fh.Header.Get(fiber.HeaderContentType),
			Size:         fh.Size,
			Body:         f,
		})
	}

	files, err := h.fileService.Upload(c.UserContext(), uploads, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Files uploaded successfully", fiber.Map{
		"files": files,
		"count": len(files),
	})
}

// List pages through uploaded files
// @Summary List files
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param mimeType query string false "Mime type prefix"
// @Success 200 {object} response.Response
// @Router /files [get]
func (h *FileHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	out, err := h.fileService.List(c.UserContext(), params.Page, params.Limit, c.Query("mimeType"), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Files retrieved successfully", out)
}

// Get returns file metadata with a download URL
// @Summary Get file
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /files/{id} [get]
func (h *FileHandler) Get(c *fiber.Ctx) error {
	out, err := h.fileService.Get(c.UserContext(), c.Params("id"), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "File retrieved successfully", out)
}

// Delete removes a file
// @Summary Delete file
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	if err := h.fileService.Delete(c.UserContext(), c.Params("id"), middleware.ActorFrom(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "File deleted successfully", nil)
}
