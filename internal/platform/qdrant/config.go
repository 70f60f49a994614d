package qdrant

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// defaultVectorDim matches text-embedding-3-small, the default embed model.
const defaultVectorDim = 1536

type Config struct {
	URL        string
	Collection string
	VectorDim  int
}

type ConfigErrorCode string

const (
	ConfigErrorMissingURL        ConfigErrorCode = "missing_url"
	ConfigErrorInvalidURL        ConfigErrorCode = "invalid_url"
	ConfigErrorMissingCollection ConfigErrorCode = "missing_collection"
	ConfigErrorInvalidVectorDim  ConfigErrorCode = "invalid_vector_dim"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid qdrant config"
	}
	switch e.Code {
	case ConfigErrorMissingURL:
		return "QDRANT_URL is required"
	case ConfigErrorInvalidURL:
		return fmt.Sprintf("invalid QDRANT_URL=%q; expected absolute URL like http://qdrant:6333", e.Value)
	case ConfigErrorMissingCollection:
		return "QDRANT_COLLECTION is required"
	case ConfigErrorInvalidVectorDim:
		return fmt.Sprintf("invalid QDRANT_VECTOR_DIM=%q; expected a positive integer", e.Value)
	default:
		return "invalid qdrant config"
	}
}

// ConfigFromEnv reads the qdrant connection settings. An empty QDRANT_URL is
// not an error: it means the vector store is not configured and search falls
// back to the document store only.
func ConfigFromEnv() (Config, bool, error) {
	rawURL := strings.TrimSpace(os.Getenv("QDRANT_URL"))
	if rawURL == "" {
		return Config{}, false, nil
	}
	cfg := Config{
		URL:        rawURL,
		Collection: strings.TrimSpace(os.Getenv("QDRANT_COLLECTION")),
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, false, &ConfigError{Code: ConfigErrorInvalidURL, Value: rawURL}
	}
	if cfg.Collection == "" {
		return Config{}, false, &ConfigError{Code: ConfigErrorMissingCollection}
	}

	rawDim := strings.TrimSpace(os.Getenv("QDRANT_VECTOR_DIM"))
	if rawDim == "" {
		cfg.VectorDim = defaultVectorDim
		return cfg, true, nil
	}
	dim, err := strconv.Atoi(rawDim)
	if err != nil || dim <= 0 {
		return Config{}, false, &ConfigError{Code: ConfigErrorInvalidVectorDim, Value: rawDim}
	}
	cfg.VectorDim = dim

	return cfg, true, nil
}
