package storage

import (
	"fmt"
	"log"

	"github.com/davidwtbuxton/captain-pasty/internal/config"
)

// NewPasteStore creates a paste record store based on the configuration
func NewPasteStore(cfg *config.Config) (PasteStore, error) {
	switch cfg.StorageType {
	case "memory":
		return NewMemoryStore(), nil

	case "mongodb":
		log.Printf("[INFO] Using MongoDB paste store: %s/%s", cfg.MongoDBURI, cfg.MongoDBDatabase)
		return NewMongoStore(cfg.MongoDBURI, cfg.MongoDBDatabase)

	case "dynamodb":
		log.Printf("[INFO] Using DynamoDB paste store: %s, %s", cfg.DynamoDBTable, cfg.DynamoDBStarTable)
		return NewDynamoStore(cfg.DynamoDBTable, cfg.DynamoDBStarTable, cfg.AWSRegion)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: memory, mongodb, dynamodb)", cfg.StorageType)
	}
}

// NewObjectStore creates an object store for file content based on the
// configuration
func NewObjectStore(cfg *config.Config) (ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "memory":
		return NewMemoryObjectStore(), nil

	case "filesystem":
		log.Printf("[INFO] Using filesystem object store: %s", cfg.DataDir)
		return NewFilesystemObjectStore(cfg.DataDir)

	case "s3":
		log.Printf("[INFO] Using S3 object store: s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
		return NewS3ObjectStore(cfg.S3Bucket, cfg.S3Prefix)

	default:
		return nil, fmt.Errorf("unsupported object store type: %s (supported: memory, filesystem, s3)", cfg.ObjectStoreType)
	}
}
