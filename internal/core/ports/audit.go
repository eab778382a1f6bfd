package ports

import (
	"context"

	"github.com/cdportal/admin-console/internal/core/domain"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}

// AuditSink accepts audit entries without blocking the caller.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}

// AuditReader lists recorded entries, newest first.
type AuditReader interface {
	Recent(ctx context.Context, actor string, limit int64) ([]domain.AuditEntry, error)
}
