package search

import (
	"fmt"
	"log"

	"github.com/davidwtbuxton/captain-pasty/internal/config"
)

// NewBackend creates a search backend based on the configuration
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.SearchBackend {
	case "memory":
		return NewMemoryBackend(), nil

	case "mongodb":
		log.Printf("[INFO] Using MongoDB search backend: %s/%s", cfg.MongoDBURI, cfg.MongoDBDatabase)
		return NewMongoBackend(cfg.MongoDBURI, cfg.MongoDBDatabase)

	default:
		return nil, fmt.Errorf("unsupported search backend: %s (supported: memory, mongodb)", cfg.SearchBackend)
	}
}
