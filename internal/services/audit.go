package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditCollection = "application_transitions"

// TransitionRecord is one entry in the append-only lifecycle audit trail.
// The trail is a side effect of accepted transitions; nothing ever reads it
// to make a lifecycle decision.
type TransitionRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ApplicationID string             `bson:"application_id" json:"applicationId"`
	PropertyID    string             `bson:"property_id" json:"propertyId"`
	TenantAddress string             `bson:"tenant_address" json:"tenantAddress"`
	From          string             `bson:"from" json:"from"`
	To            string             `bson:"to" json:"to"`
	Actor         string             `bson:"actor" json:"actor"`
	TxHash        string             `bson:"tx_hash,omitempty" json:"txHash,omitempty"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}

// AuditLog appends transition records to MongoDB.
type AuditLog struct {
	db *mongo.Database
}

func NewAuditLog(db *mongo.Database) *AuditLog {
	return &AuditLog{db: db}
}

// EnsureIndexes configures the audit collection's indexes. Called on startup
// from main after Mongo has connected.
func (a *AuditLog) EnsureIndexes(ctx context.Context) error {
	col := a.db.Collection(auditCollection)

	// Compound index on (application_id, timestamp) to support per-application history reads.
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "application_id", Value: 1},
			{Key: "timestamp", Value: 1},
		},
		Options: options.Index().SetName("idx_application_timestamp"),
	})
	return err
}

// RecordTransitionAsync persists a record asynchronously. The caller should
// NOT block on this; fire-and-forget is acceptable for an audit trail.
func (a *AuditLog) RecordTransitionAsync(rec TransitionRecord) {
	go func(r TransitionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if r.Timestamp.IsZero() {
			r.Timestamp = time.Now().UTC()
		}
		if _, err := a.db.Collection(auditCollection).InsertOne(ctx, r); err != nil {
			log.Printf("audit log: failed to record transition for %s: %v", r.ApplicationID, err)
		}
	}(rec)
}

// History returns the recorded transitions of one application, oldest first.
func (a *AuditLog) History(ctx context.Context, applicationID string) ([]TransitionRecord, error) {
	cur, err := a.db.Collection(auditCollection).Find(ctx,
		bson.M{"application_id": applicationID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []TransitionRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
