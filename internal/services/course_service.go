package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxCourseImages = 10

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type CourseService interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*models.Course, error)
	Upsert(ctx context.Context, tenantID uuid.UUID, req *models.CourseRequest) (*models.Course, error)
	AddImage(ctx context.Context, tenantID uuid.UUID, reader io.Reader, size int64, contentType string) (*models.Course, error)
	RemoveImage(ctx context.Context, tenantID uuid.UUID, objectName string) (*models.Course, error)
}

type courseService struct {
	courses repositories.CourseRepository
	images  MinioService
}

// NewCourseService accepts a nil image store; image operations then fail with InvalidInput.
func NewCourseService(courses repositories.CourseRepository, images MinioService) CourseService {
	return &courseService{courses: courses, images: images}
}

func (s *courseService) withURLs(course *models.Course) *models.Course {
	course.ImageURLs = make([]string, 0, len(course.Images))
	if s.images == nil {
		return course
	}
	for _, key := range course.Images {
		course.ImageURLs = append(course.ImageURLs, s.images.PublicURL(key))
	}
	return course
}

func (s *courseService) Get(ctx context.Context, tenantID uuid.UUID) (*models.Course, error) {
	course, err := s.courses.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.withURLs(course), nil
}

func (s *courseService) Upsert(ctx context.Context, tenantID uuid.UUID, req *models.CourseRequest) (*models.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 255 {
		return nil, common.InvalidInput("name is required and cannot exceed 255 characters")
	}
	if req.Holes == 0 {
		req.Holes = 18
	}
	if req.Holes != 9 && req.Holes != 18 && req.Holes != 27 && req.Holes != 36 {
		return nil, common.InvalidInput("holes must be 9, 18, 27 or 36")
	}
	if req.Par == 0 {
		req.Par = 72
	}
	if req.Par < 27 || req.Par > 144 {
		return nil, common.InvalidInput("par must be between 27 and 144")
	}
	if err := common.ValidateOptionalString(req.Description, "description", 5000); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Holes:       req.Holes,
		Par:         req.Par,
		Amenities:   req.Amenities,
		Hours:       req.Hours,
	}
	if err := s.courses.Upsert(ctx, course); err != nil {
		return nil, err
	}
	return s.withURLs(course), nil
}

func (s *courseService) AddImage(ctx context.Context, tenantID uuid.UUID, reader io.Reader, size int64, contentType string) (*models.Course, error) {
	if s.images == nil {
		return nil, common.InvalidInput("image storage is not configured")
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, common.InvalidInput("images must be JPEG, PNG or WebP")
	}

	course, err := s.courses.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(course.Images) >= maxCourseImages {
		return nil, common.Conflict(fmt.Sprintf("a course can have at most %d images", maxCourseImages))
	}

	objectName := path.Join("courses", tenantID.String(), uuid.NewString()+ext)
	if err := s.images.UploadImage(ctx, objectName, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("upload course image: %w", err)
	}

	images := append(append([]string{}, course.Images...), objectName)
	if err := s.courses.SetImages(ctx, tenantID, images); err != nil {
		if delErr := s.images.DeleteImage(ctx, objectName); delErr != nil {
			log.Ctx(ctx).Warn().Err(delErr).Str("object", objectName).Msg("failed to remove orphaned course image")
		}
		return nil, err
	}
	course.Images = images
	return s.withURLs(course), nil
}

func (s *courseService) RemoveImage(ctx context.Context, tenantID uuid.UUID, objectName string) (*models.Course, error) {
	if s.images == nil {
		return nil, common.InvalidInput("image storage is not configured")
	}
	course, err := s.courses.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	remaining := make([]string, 0, len(course.Images))
	found := false
	for _, key := range course.Images {
		if key == objectName {
			found = true
			continue
		}
		remaining = append(remaining, key)
	}
	if !found {
		return nil, common.NotFound("image")
	}

	if err := s.courses.SetImages(ctx, tenantID, remaining); err != nil {
		return nil, err
	}
	if err := s.images.DeleteImage(ctx, objectName); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("object", objectName).Msg("failed to delete course image object")
	}
	course.Images = remaining
	return s.withURLs(course), nil
}
