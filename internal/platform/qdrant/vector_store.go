package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atlaslearn/atlas-backend/internal/pkg/ctxutil"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
)

const (
	payloadDocIDKey   = "_al_doc_id"
	maxErrorBodyBytes = 1024
)

// Deterministic point ids: qdrant requires UUID or integer ids, so external
// document ids are mapped through UUIDv5 in a fixed namespace.
var pointIDNamespaceUUID = uuid.MustParse("7c2f34a9-51be-4f02-9f6b-dd42c9a4b6cd")

// Match is one similarity hit: the original document id, the similarity
// score, and the stored payload.
type Match struct {
	DocID   string
	Score   float64
	Payload map[string]any
}

// VectorStore indexes document text embeddings and answers similarity
// queries.
type VectorStore interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, docIDs []string, vectors [][]float32, payloads []map[string]any) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Ping(ctx context.Context) error
}

type vectorStore struct {
	log     *logger.Logger
	cfg     Config
	baseURL string
	http    *http.Client
}

func NewVectorStore(log *logger.Logger, cfg Config) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.URL) == "" || strings.TrimSpace(cfg.Collection) == "" || cfg.VectorDim <= 0 {
		return nil, fmt.Errorf("qdrant config incomplete")
	}
	return &vectorStore{
		log:     log.With("service", "QdrantVectorStore"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
}

func (s *vectorStore) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, s.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := raw
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		return fmt.Errorf("qdrant %s %s: http %d: %s", method, path, resp.StatusCode, string(snippet))
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("qdrant decode: %w", err)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	return json.Unmarshal(env.Result, out)
}

func (s *vectorStore) Ping(ctx context.Context) error {
	return s.do(ctx, "GET", "/collections", nil, nil)
}

func (s *vectorStore) EnsureCollection(ctx context.Context) error {
	path := "/collections/" + s.cfg.Collection
	err := s.do(ctx, "GET", path, nil, nil)
	if err == nil {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.cfg.VectorDim,
			"distance": "Cosine",
		},
	}
	if cErr := s.do(ctx, "PUT", path, body, nil); cErr != nil {
		return fmt.Errorf("qdrant create collection %q: %w", s.cfg.Collection, cErr)
	}
	s.log.Info("qdrant collection created", "collection", s.cfg.Collection, "dim", s.cfg.VectorDim)
	return nil
}

func pointID(docID string) string {
	return uuid.NewSHA1(pointIDNamespaceUUID, []byte(strings.TrimSpace(docID))).String()
}

func (s *vectorStore) Upsert(ctx context.Context, docIDs []string, vectors [][]float32, payloads []map[string]any) error {
	if len(docIDs) == 0 {
		return nil
	}
	if len(vectors) != len(docIDs) {
		return fmt.Errorf("qdrant upsert: %d ids but %d vectors", len(docIDs), len(vectors))
	}

	points := make([]map[string]any, 0, len(docIDs))
	for i, id := range docIDs {
		if len(vectors[i]) != s.cfg.VectorDim {
			return fmt.Errorf("qdrant upsert: vector %d has dim %d, want %d", i, len(vectors[i]), s.cfg.VectorDim)
		}
		payload := map[string]any{}
		if i < len(payloads) {
			for k, v := range payloads[i] {
				payload[k] = v
			}
		}
		payload[payloadDocIDKey] = strings.TrimSpace(id)
		points = append(points, map[string]any{
			"id":      pointID(id),
			"vector":  vectors[i],
			"payload": payload,
		})
	}

	body := map[string]any{"points": points}
	path := "/collections/" + s.cfg.Collection + "/points?wait=true"
	return s.do(ctx, "PUT", path, body, nil)
}

type searchResultItem struct {
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

func (s *vectorStore) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if len(vector) != s.cfg.VectorDim {
		return nil, fmt.Errorf("qdrant query: vector dim %d, want %d", len(vector), s.cfg.VectorDim)
	}
	if topK <= 0 {
		topK = 10
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var items []searchResultItem
	path := "/collections/" + s.cfg.Collection + "/points/search"
	if err := s.do(ctx, "POST", path, body, &items); err != nil {
		return nil, err
	}

	out := make([]Match, 0, len(items))
	for _, item := range items {
		docID := ""
		if v, ok := item.Payload[payloadDocIDKey].(string); ok {
			docID = v
		}
		payload := map[string]any{}
		for k, v := range item.Payload {
			if k == payloadDocIDKey {
				continue
			}
			payload[k] = v
		}
		out = append(out, Match{DocID: docID, Score: item.Score, Payload: payload})
	}
	return out, nil
}
