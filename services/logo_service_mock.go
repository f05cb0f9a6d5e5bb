package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/matias-herrera/repairshop-api/utils"
)

// MockLogoStorage is a mock implementation of LogoStorage for testing
type MockLogoStorage struct {
	storedLogos map[string][]byte // map of stored name to file content
	mu          sync.RWMutex
}

// NewMockLogoStorage creates a new mock logo storage
func NewMockLogoStorage() *MockLogoStorage {
	return &MockLogoStorage{
		storedLogos: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global logo storage instance for testing
func (m *MockLogoStorage) SetAsMockForTesting() {
	SetLogoStorage(m)
}

// Save simulates storing an uploaded logo
func (m *MockLogoStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateLogoFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	name := fmt.Sprintf("mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.storedLogos[name] = content
	m.mu.Unlock()

	return name, nil
}

// URL simulates generating a URL for a stored logo
func (m *MockLogoStorage) URL(name string) (string, error) {
	if name == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.storedLogos[name]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("logo not found in mock storage: %s", name)
	}

	return fmt.Sprintf("/uploads/%s?mock=true", name), nil
}

// Delete simulates deleting a stored logo
func (m *MockLogoStorage) Delete(name string) error {
	if name == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.storedLogos, name)
	m.mu.Unlock()

	return nil
}

// LogoExists checks if a logo exists in mock storage
func (m *MockLogoStorage) LogoExists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.storedLogos[name]
	return exists
}

// Clear removes all logos from mock storage
func (m *MockLogoStorage) Clear() {
	m.mu.Lock()
	m.storedLogos = make(map[string][]byte)
	m.mu.Unlock()
}
