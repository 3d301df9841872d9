package services

import (
	"fmt"
	"mime/multipart"

	"github.com/swathoops/swathoops-api/utils"
)

// ImageService handles product image upload and deletion
type ImageService interface {
	// UploadImage validates and uploads an image file, returning its public URL
	UploadImage(fileHeader *multipart.FileHeader, maxSize int64) (string, error)

	// DeleteImage removes an image from storage by its key
	DeleteImage(imageKey string) error
}

// S3ImageService implements ImageService using S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with an S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads an image file, returning its public URL
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader, maxSize int64) (string, error) {
	if err := utils.ValidateImageFile(fileHeader, maxSize); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.s3Service.PublicURL(s3Key), nil
}

// DeleteImage deletes an image from storage
func (s *S3ImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
