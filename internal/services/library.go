package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/llm"
	"github.com/atlaslearn/atlas-backend/internal/platform/qdrant"
	"github.com/atlaslearn/atlas-backend/internal/repos"
	"github.com/atlaslearn/atlas-backend/internal/types"
)

// IngestDocumentInput is one document submitted to the library.
type IngestDocumentInput struct {
	Kind            string   `json:"kind"`
	Title           string   `json:"title"`
	Subject         string   `json:"subject"`
	Unit            string   `json:"unit,omitempty"`
	Author          string   `json:"author,omitempty"`
	Source          string   `json:"source,omitempty"`
	URL             string   `json:"url,omitempty"`
	ISBN            string   `json:"isbn,omitempty"`
	KeyConcepts     []string `json:"key_concepts,omitempty"`
	Snippet         string   `json:"snippet,omitempty"`
	ChannelName     string   `json:"channel_name,omitempty"`
	DurationSeconds int      `json:"duration_seconds,omitempty"`
	IsPlaylist      bool     `json:"is_playlist,omitempty"`
	ViewCount       int64    `json:"view_count,omitempty"`
	PageCount       int      `json:"page_count,omitempty"`
	PublicationYear int      `json:"publication_year,omitempty"`
}

type LibraryService interface {
	IngestDocuments(ctx context.Context, inputs []IngestDocumentInput) ([]*types.Document, error)
	Stats(ctx context.Context) (map[string]int64, error)
}

type libraryService struct {
	db      *gorm.DB
	log     *logger.Logger
	docs    repos.DocumentRepo
	llm     llm.Client
	vectors qdrant.VectorStore
}

func NewLibraryService(db *gorm.DB, log *logger.Logger, docs repos.DocumentRepo, llmClient llm.Client, vectors qdrant.VectorStore) LibraryService {
	return &libraryService{
		db:      db,
		log:     log.With("service", "LibraryService"),
		docs:    docs,
		llm:     llmClient,
		vectors: vectors,
	}
}

// IngestDocuments stores the documents and indexes them into the vector
// store when one is configured. Indexing is best effort: a vector-store
// failure never loses the stored rows.
func (ls *libraryService) IngestDocuments(ctx context.Context, inputs []IngestDocumentInput) ([]*types.Document, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no documents provided: %w", pkgerrors.ErrInvalidArgument)
	}

	docs := make([]*types.Document, 0, len(inputs))
	for i, in := range inputs {
		doc, err := documentFromInput(in)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}

	if err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ls.docs.Create(ctx, tx, docs)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to store documents: %w", err)
	}

	if err := ls.indexDocuments(ctx, docs); err != nil {
		ls.log.Warn("vector indexing failed", "count", len(docs), "error", err)
	}
	return docs, nil
}

func (ls *libraryService) indexDocuments(ctx context.Context, docs []*types.Document) error {
	if ls.vectors == nil {
		return nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = embeddingText(d)
	}
	vectors, err := ls.llm.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embed returned %d vectors for %d documents", len(vectors), len(docs))
	}

	ids := make([]string, len(docs))
	payloads := make([]map[string]any, len(docs))
	for i, d := range docs {
		ids[i] = d.ID.String()
		payloads[i] = vectorPayload(d)
	}
	return ls.vectors.Upsert(ctx, ids, vectors, payloads)
}

func (ls *libraryService) Stats(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, kind := range []string{types.DocumentKindBook, types.DocumentKindSlide, types.DocumentKindVideo} {
		n, err := ls.docs.CountByKind(ctx, nil, kind)
		if err != nil {
			return nil, fmt.Errorf("count %s documents: %w", kind, err)
		}
		out[kind] = n
	}
	return out, nil
}

func documentFromInput(in IngestDocumentInput) (*types.Document, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	switch kind {
	case types.DocumentKindBook, types.DocumentKindSlide, types.DocumentKindVideo:
	default:
		return nil, fmt.Errorf("unknown kind %q: %w", in.Kind, pkgerrors.ErrInvalidArgument)
	}
	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	if title == "" || subject == "" {
		return nil, fmt.Errorf("title and subject are required: %w", pkgerrors.ErrInvalidArgument)
	}

	doc := &types.Document{
		ID:              uuid.New(),
		Kind:            kind,
		Title:           title,
		Subject:         subject,
		Unit:            strings.TrimSpace(in.Unit),
		Author:          strings.TrimSpace(in.Author),
		Source:          strings.TrimSpace(in.Source),
		URL:             strings.TrimSpace(in.URL),
		ISBN:            strings.TrimSpace(in.ISBN),
		Snippet:         in.Snippet,
		ChannelName:     strings.TrimSpace(in.ChannelName),
		DurationSeconds: in.DurationSeconds,
		IsPlaylist:      in.IsPlaylist,
		ViewCount:       in.ViewCount,
		PageCount:       in.PageCount,
		PublicationYear: in.PublicationYear,
	}
	if len(in.KeyConcepts) > 0 {
		raw, err := json.Marshal(in.KeyConcepts)
		if err != nil {
			return nil, fmt.Errorf("serialize key concepts: %w", err)
		}
		doc.KeyConcepts = datatypes.JSON(raw)
	}
	return doc, nil
}

func embeddingText(d *types.Document) string {
	parts := []string{d.Title, d.Subject}
	if len(d.KeyConcepts) > 0 {
		var concepts []string
		if json.Unmarshal(d.KeyConcepts, &concepts) == nil {
			parts = append(parts, strings.Join(concepts, " "))
		}
	}
	if d.Snippet != "" {
		parts = append(parts, d.Snippet)
	}
	return strings.Join(parts, "\n")
}

func vectorPayload(d *types.Document) map[string]any {
	payload := map[string]any{
		"id":      d.ID.String(),
		"kind":    d.Kind,
		"title":   d.Title,
		"subject": d.Subject,
	}
	if d.Unit != "" {
		payload["unit"] = d.Unit
	}
	if d.URL != "" {
		payload["url"] = d.URL
	}
	if d.Author != "" {
		payload["author"] = d.Author
	}
	if d.Snippet != "" {
		payload["snippet"] = d.Snippet
	}
	if len(d.KeyConcepts) > 0 {
		var concepts []string
		if json.Unmarshal(d.KeyConcepts, &concepts) == nil {
			payload["key_concepts"] = concepts
		}
	}
	return payload
}
