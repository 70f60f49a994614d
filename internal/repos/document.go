package repos

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/types"
)

// DocumentQuery is the filter shape the resource selector builds. Zero-value
// fields are skipped.
type DocumentQuery struct {
	Kind     string
	Subject  string
	Unit     string
	Concepts []string
	Limit    int
}

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error)
	Search(ctx context.Context, tx *gorm.DB, q DocumentQuery) ([]*types.Document, error)
	CountByKind(ctx context.Context, tx *gorm.DB, kind string) (int64, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error) {
	if len(docs) == 0 {
		return []*types.Document{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error) {
	var results []*types.Document
	if len(ids) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// unitForms lists the stored representations a unit value can match. Units
// were stored as text by some sources and bare integers by others; the
// canonical integer form only differs for padded inputs like "01".
func unitForms(unit string) []string {
	forms := []string{unit}
	if n, err := strconv.Atoi(unit); err == nil {
		if canon := strconv.Itoa(n); canon != unit {
			forms = append(forms, canon)
		}
	}
	return forms
}

func (r *documentRepo) Search(ctx context.Context, tx *gorm.DB, q DocumentQuery) ([]*types.Document, error) {
	db := r.conn(tx).WithContext(ctx).Model(&types.Document{})

	if kind := strings.TrimSpace(q.Kind); kind != "" {
		db = db.Where("kind = ?", kind)
	}
	if subject := strings.TrimSpace(q.Subject); subject != "" {
		db = db.Where("LOWER(subject) LIKE ?", "%"+strings.ToLower(subject)+"%")
	}
	if unit := strings.TrimSpace(q.Unit); unit != "" {
		db = db.Where("unit IN ?", unitForms(unit))
	}
	if len(q.Concepts) > 0 {
		clause := r.conn(tx).Session(&gorm.Session{NewDB: true})
		cond := clause
		first := true
		for _, c := range q.Concepts {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" {
				continue
			}
			pattern := "%" + c + "%"
			expr := "LOWER(title) LIKE ? OR LOWER(CAST(key_concepts AS TEXT)) LIKE ?"
			if first {
				cond = clause.Where(expr, pattern, pattern)
				first = false
			} else {
				cond = cond.Or(expr, pattern, pattern)
			}
		}
		if !first {
			db = db.Where(cond)
		}
	}

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	var results []*types.Document
	if err := db.Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) CountByKind(ctx context.Context, tx *gorm.DB, kind string) (int64, error) {
	var count int64
	db := r.conn(tx).WithContext(ctx).Model(&types.Document{})
	if kind = strings.TrimSpace(kind); kind != "" {
		db = db.Where("kind = ?", kind)
	}
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
