package handlers

import (
	"io"
	"net/http"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

// CourseHandlers handles the admin course profile and gallery
type CourseHandlers struct {
	courseService services.CourseService
}

func NewCourseHandlers(courseService services.CourseService) *CourseHandlers {
	return &CourseHandlers{courseService: courseService}
}

// GetCourse handles GET /admin/course
func (h *CourseHandlers) GetCourse(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	course, err := h.courseService.Get(ctx, tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// UpdateCourse handles PUT /admin/course
func (h *CourseHandlers) UpdateCourse(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.CourseRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	course, err := h.courseService.Upsert(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// UploadImage handles POST /admin/course/images (multipart field "image")
func (h *CourseHandlers) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "Image file is required")
	}
	if file.Size > maxImageSize {
		return common.SendValidationError(c, "image", "File size exceeds maximum limit of 5MB")
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer src.Close()

	// Sniff the type from the content rather than trusting the client header.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return respondError(c, err)
	}
	contentType := http.DetectContentType(buffer[:n])
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return respondError(c, err)
	}

	course, err := h.courseService.AddImage(ctx, tenantID, src, file.Size, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, course)
}

// DeleteImage handles DELETE /admin/course/images?key=<object key>
func (h *CourseHandlers) DeleteImage(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	key := c.QueryParam("key")
	if key == "" {
		return common.SendValidationError(c, "key", "key is required")
	}

	course, err := h.courseService.RemoveImage(ctx, tenantID, key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}
