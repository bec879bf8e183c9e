package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration options for the pasty server
type Config struct {
	// Server configuration
	Domain string
	Port   int

	// Paste record storage: "memory", "mongodb", "dynamodb"
	StorageType string

	// File content storage: "memory", "filesystem", "s3"
	ObjectStoreType string
	DataDir         string
	S3Bucket        string
	S3Prefix        string
	AWSRegion       string

	// Database configuration
	MongoDBURI        string
	MongoDBDatabase   string
	DynamoDBTable     string
	DynamoDBStarTable string

	// Search configuration: "memory", "mongodb"
	SearchBackend string
	PageSize      int

	// Highlighting configuration
	HighlightStyle string
	LexerOverrides string

	// Operational configuration
	AdminToken    string
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Domain:            "localhost",
		Port:              8080,
		StorageType:       "memory",
		ObjectStoreType:   "memory",
		DataDir:           "./data",
		MongoDBURI:        "mongodb://localhost:27017",
		MongoDBDatabase:   "pasty",
		DynamoDBTable:     "pasty-pastes",
		DynamoDBStarTable: "pasty-stars",
		SearchBackend:     "memory",
		PageSize:          20,
		HighlightStyle:    "autumn",
		EnableMetrics:     true,
	}
}

// LoadFromFlags parses command-line flags and environment variables
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	flag.StringVar(&cfg.Domain, "domain", getEnvString("PASTY_DOMAIN", cfg.Domain), "Domain name for generated URLs")
	flag.IntVar(&cfg.Port, "port", getEnvInt("PASTY_PORT", cfg.Port), "HTTP port to listen on")

	// Storage configuration
	flag.StringVar(&cfg.StorageType, "storage-type", getEnvString("PASTY_STORAGE_TYPE", cfg.StorageType), "Paste record store: memory, mongodb, dynamodb")
	flag.StringVar(&cfg.ObjectStoreType, "object-store-type", getEnvString("PASTY_OBJECT_STORE_TYPE", cfg.ObjectStoreType), "File content store: memory, filesystem, s3")
	flag.StringVar(&cfg.DataDir, "data-dir", getEnvString("PASTY_DATA_DIR", cfg.DataDir), "Directory for file content (filesystem only)")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", getEnvString("PASTY_S3_BUCKET", cfg.S3Bucket), "S3 bucket for file content (s3 only)")
	flag.StringVar(&cfg.S3Prefix, "s3-prefix", getEnvString("PASTY_S3_PREFIX", cfg.S3Prefix), "Key prefix within the S3 bucket")
	flag.StringVar(&cfg.AWSRegion, "aws-region", getEnvString("AWS_REGION", cfg.AWSRegion), "AWS region for S3 and DynamoDB")

	// Database configuration
	flag.StringVar(&cfg.MongoDBURI, "mongodb-uri", getEnvString("PASTY_MONGODB_URI", cfg.MongoDBURI), "MongoDB connection URI")
	flag.StringVar(&cfg.MongoDBDatabase, "mongodb-database", getEnvString("PASTY_MONGODB_DATABASE", cfg.MongoDBDatabase), "MongoDB database name")
	flag.StringVar(&cfg.DynamoDBTable, "dynamodb-table", getEnvString("PASTY_DYNAMODB_TABLE", cfg.DynamoDBTable), "DynamoDB table for paste records")
	flag.StringVar(&cfg.DynamoDBStarTable, "dynamodb-star-table", getEnvString("PASTY_DYNAMODB_STAR_TABLE", cfg.DynamoDBStarTable), "DynamoDB table for stars")

	// Search configuration
	flag.StringVar(&cfg.SearchBackend, "search-backend", getEnvString("PASTY_SEARCH_BACKEND", cfg.SearchBackend), "Search backend: memory, mongodb")
	flag.IntVar(&cfg.PageSize, "page-size", getEnvInt("PASTY_PAGE_SIZE", cfg.PageSize), "Results per page for listings and search")

	// Highlighting configuration
	flag.StringVar(&cfg.HighlightStyle, "highlight-style", getEnvString("PASTY_HIGHLIGHT_STYLE", cfg.HighlightStyle), "Syntax highlighting style")
	flag.StringVar(&cfg.LexerOverrides, "lexer-overrides", getEnvString("PASTY_LEXER_OVERRIDES", cfg.LexerOverrides), "Extension to lexer overrides (e.g. .conf=INI,.tpl=HTML)")

	flag.StringVar(&cfg.AdminToken, "admin-token", getEnvString("PASTY_ADMIN_TOKEN", cfg.AdminToken), "Bearer token for admin endpoints (empty disables them)")
	flag.BoolVar(&cfg.EnableMetrics, "enable-metrics", getEnvBool("PASTY_ENABLE_METRICS", cfg.EnableMetrics), "Enable Prometheus metrics endpoint")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pasty - Paste storage and search service\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  All flags can be set via environment variables with PASTY_ prefix\n")
		fmt.Fprintf(os.Stderr, "  Example: PASTY_DOMAIN=paste.example.com\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  # Start with in-memory stores\n")
		fmt.Fprintf(os.Stderr, "  %s\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # MongoDB records with filesystem content\n")
		fmt.Fprintf(os.Stderr, "  %s -storage-type mongodb -search-backend mongodb -object-store-type filesystem -data-dir /var/lib/pasty\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # DynamoDB records with S3 content\n")
		fmt.Fprintf(os.Stderr, "  %s -storage-type dynamodb -object-store-type s3 -s3-bucket my-pastes\n\n", os.Args[0])
	}

	flag.Parse()

	return cfg, cfg.Validate()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	switch c.StorageType {
	case "memory", "mongodb", "dynamodb":
	default:
		return fmt.Errorf("invalid storage type: %s (valid: memory, mongodb, dynamodb)", c.StorageType)
	}

	switch c.ObjectStoreType {
	case "memory":
	case "filesystem":
		if c.DataDir == "" {
			return fmt.Errorf("data dir cannot be empty for filesystem object store")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty for s3 object store")
		}
	default:
		return fmt.Errorf("invalid object store type: %s (valid: memory, filesystem, s3)", c.ObjectStoreType)
	}

	switch c.SearchBackend {
	case "memory", "mongodb":
	default:
		return fmt.Errorf("invalid search backend: %s (valid: memory, mongodb)", c.SearchBackend)
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100: %d", c.PageSize)
	}

	if _, err := c.ParseLexerOverrides(); err != nil {
		return err
	}

	return nil
}

// GetBaseURL returns the base URL for paste links
// Note: HTTPS/TLS should be handled by reverse proxy (nginx, HAProxy, etc.)
func (c *Config) GetBaseURL() string {
	if c.Port == 80 {
		return fmt.Sprintf("http://%s", c.Domain)
	}
	return fmt.Sprintf("http://%s:%d", c.Domain, c.Port)
}

// GetRawBaseURL returns the base URL for raw file content links
func (c *Config) GetRawBaseURL() string {
	return c.GetBaseURL() + "/raw"
}

// ParseLexerOverrides parses the comma-separated extension=lexer pairs into
// a map keyed by extension, e.g. ".conf=INI,.tpl=HTML".
func (c *Config) ParseLexerOverrides() (map[string]string, error) {
	if c.LexerOverrides == "" {
		return nil, nil
	}

	overrides := make(map[string]string)
	for _, pair := range strings.Split(c.LexerOverrides, ",") {
		ext, lexer, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || ext == "" || lexer == "" {
			return nil, fmt.Errorf("invalid lexer override: %q (expected .ext=Lexer)", pair)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		overrides[ext] = lexer
	}
	return overrides, nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
