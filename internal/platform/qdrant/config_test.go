package qdrant

import (
	"errors"
	"testing"
)

func clearQdrantEnv(t *testing.T) {
	t.Helper()
	t.Setenv("QDRANT_URL", "")
	t.Setenv("QDRANT_COLLECTION", "")
	t.Setenv("QDRANT_VECTOR_DIM", "")
}

func TestConfigFromEnv_UnsetURLMeansUnconfigured(t *testing.T) {
	clearQdrantEnv(t)

	_, ok, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false with no QDRANT_URL")
	}
}

func TestConfigFromEnv_Valid(t *testing.T) {
	clearQdrantEnv(t)
	t.Setenv("QDRANT_URL", "http://qdrant:6333")
	t.Setenv("QDRANT_COLLECTION", "documents")
	t.Setenv("QDRANT_VECTOR_DIM", "1536")

	cfg, ok, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if cfg.URL != "http://qdrant:6333" || cfg.Collection != "documents" || cfg.VectorDim != 1536 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestConfigFromEnv_DimDefaultsToEmbedModel(t *testing.T) {
	clearQdrantEnv(t)
	t.Setenv("QDRANT_URL", "http://qdrant:6333")
	t.Setenv("QDRANT_COLLECTION", "documents")

	cfg, ok, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true with URL and collection set")
	}
	if cfg.VectorDim != 1536 {
		t.Fatalf("unexpected default dim: %d", cfg.VectorDim)
	}
}

func TestConfigFromEnv_Errors(t *testing.T) {
	cases := []struct {
		name       string
		url        string
		collection string
		dim        string
		code       ConfigErrorCode
	}{
		{"relative url", "qdrant:6333", "documents", "1536", ConfigErrorInvalidURL},
		{"missing collection", "http://qdrant:6333", "", "1536", ConfigErrorMissingCollection},
		{"non-numeric dim", "http://qdrant:6333", "documents", "lots", ConfigErrorInvalidVectorDim},
		{"negative dim", "http://qdrant:6333", "documents", "-4", ConfigErrorInvalidVectorDim},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearQdrantEnv(t)
			t.Setenv("QDRANT_URL", tc.url)
			t.Setenv("QDRANT_COLLECTION", tc.collection)
			t.Setenv("QDRANT_VECTOR_DIM", tc.dim)

			_, _, err := ConfigFromEnv()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Code != tc.code {
				t.Fatalf("unexpected code: got=%s want=%s", cfgErr.Code, tc.code)
			}
		})
	}
}
