package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the lookup index used by Recent.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "actor", Value: 1}, {Key: "at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("audit index: %w", err)
	}
	return nil
}

// Insert appends one entry to the audit_events collection.
func (r *AuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	entry.At = entry.At.UTC()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}

// Recent returns the newest entries for actor, newest first. An empty actor
// lists every actor.
func (r *AuditRepository) Recent(ctx context.Context, actor string, limit int64) ([]domain.AuditEntry, error) {
	filter := bson.M{}
	if actor != "" {
		filter["actor"] = actor
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("audit find: %w", err)
	}
	defer cur.Close(ctx)

	entries := []domain.AuditEntry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("audit decode: %w", err)
	}
	return entries, nil
}
