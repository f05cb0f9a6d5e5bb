package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/utils"
)

// LogoStorage stores the shop logo shown on work orders. The default
// backend is the local uploads directory; hosted deployments can switch
// to S3 with LOGO_STORAGE=s3.
type LogoStorage interface {
	// Save validates and stores an uploaded logo, returns the stored name
	Save(fileHeader *multipart.FileHeader) (string, error)

	// URL returns a URL for serving the stored logo
	URL(name string) (string, error)

	// Delete removes a stored logo
	Delete(name string) error
}

var logoStorageInstance LogoStorage

// InitLogoStorage initializes the logo storage backend selected by the
// configuration.
func InitLogoStorage(cfg *config.Config) (LogoStorage, error) {
	switch cfg.LogoStorage {
	case config.LogoStorageS3:
		s3Service, err := InitS3Service(cfg)
		if err != nil {
			return nil, err
		}
		logoStorageInstance = &S3LogoStorage{s3Service: s3Service}
	default:
		logoStorageInstance = &LocalLogoStorage{uploadDir: cfg.UploadDir}
	}
	return logoStorageInstance, nil
}

// GetLogoStorage returns the initialized logo storage instance
func GetLogoStorage() LogoStorage {
	return logoStorageInstance
}

// SetLogoStorage sets the logo storage instance (primarily for testing)
func SetLogoStorage(storage LogoStorage) {
	logoStorageInstance = storage
}

// LocalLogoStorage keeps the logo in the uploads directory on disk.
type LocalLogoStorage struct {
	uploadDir string
}

// NewLocalLogoStorage creates a local logo storage rooted at uploadDir
func NewLocalLogoStorage(uploadDir string) *LocalLogoStorage {
	return &LocalLogoStorage{uploadDir: uploadDir}
}

// Save validates and writes the uploaded logo to the uploads directory
func (s *LocalLogoStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateLogoFile(fileHeader); err != nil {
		return "", err
	}

	name, err := utils.LogoFilename(fileHeader.Filename)
	if err != nil {
		return "", err
	}

	if err := utils.SaveUploadedFile(fileHeader, s.uploadDir, name); err != nil {
		return "", fmt.Errorf("failed to store logo: %w", err)
	}

	return name, nil
}

// URL returns the serving path for a stored logo
func (s *LocalLogoStorage) URL(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	return "/uploads/" + name, nil
}

// Delete removes a stored logo; a missing file is not an error
func (s *LocalLogoStorage) Delete(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.uploadDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete logo: %w", err)
	}
	return nil
}

// S3LogoStorage keeps the logo in an S3 bucket.
type S3LogoStorage struct {
	s3Service S3Interface
}

// NewS3LogoStorage creates an S3-backed logo storage
func NewS3LogoStorage(s3Service S3Interface) *S3LogoStorage {
	return &S3LogoStorage{s3Service: s3Service}
}

// Save validates and uploads the logo to S3
func (s *S3LogoStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateLogoFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	return key, nil
}

// URL generates a presigned URL for the stored logo
func (s *S3LogoStorage) URL(name string) (string, error) {
	if name == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(name)
	if err != nil {
		return "", fmt.Errorf("failed to generate logo URL: %w", err)
	}

	return url, nil
}

// Delete removes the stored logo from S3
func (s *S3LogoStorage) Delete(name string) error {
	if name == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(name); err != nil {
		return fmt.Errorf("failed to delete logo: %w", err)
	}

	return nil
}
