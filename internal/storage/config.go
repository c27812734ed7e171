package storage

import "fmt"

// Config holds storage configuration
type Config struct {
	Type    string // "local"
	Dir     string // Directory for archived reports
	BaseURL string // Server base URL for download links
}

// New builds the backend named by cfg.Type.
func New(cfg Config) (StorageInterface, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.BaseURL, cfg.Dir)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
