package storage

import (
	"fmt"

	"github.com/gravadigital/orbitview-api/internal/config"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// StorageType names a repository backend
type StorageType string

const (
	// StorageTypePostgres is the only backend the visibility rules compile to
	StorageTypePostgres StorageType = "postgres"
)

// Factory builds repository containers for one backend
type Factory struct {
	storageType StorageType
}

// NewFactory creates a new storage factory
func NewFactory(storageType StorageType) *Factory {
	return &Factory{storageType: storageType}
}

// FromConfig picks the backend named by STORAGE_TYPE
func FromConfig(cfg *config.Config) (*Factory, error) {
	if cfg.Storage.Type == "" {
		return DefaultFactory(), nil
	}
	st, err := ValidateStorageType(cfg.Storage.Type)
	if err != nil {
		return nil, err
	}
	return NewFactory(st), nil
}

// CreateContainer connects, migrates and returns the repositories
func (f *Factory) CreateContainer(cfg *config.Config) (postgres.RepositoryContainer, error) {
	switch f.storageType {
	case StorageTypePostgres:
		return postgres.NewContainer(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}

// GetSupportedTypes returns a list of supported storage types
func GetSupportedTypes() []StorageType {
	return []StorageType{StorageTypePostgres}
}

// ValidateStorageType validates if a storage type is supported
func ValidateStorageType(storageType string) (StorageType, error) {
	st := StorageType(storageType)
	for _, supported := range GetSupportedTypes() {
		if st == supported {
			return st, nil
		}
	}
	return "", fmt.Errorf("unsupported storage type: %s. Supported types: %v", storageType, GetSupportedTypes())
}

// DefaultFactory returns a factory configured with the default storage type
func DefaultFactory() *Factory {
	return NewFactory(StorageTypePostgres)
}
