package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

// ActivityCollection is the MongoDB collection holding the audit trail.
const ActivityCollection = "activity_events"

// ActivityLog records account and feedback actions.
type ActivityLog interface {
	Record(ctx context.Context, event models.ActivityEvent) error
	PurgeUser(ctx context.Context, username string) error
}

type MongoActivityLog struct {
	col *mongo.Collection
}

func NewMongoActivityLog(db *mongo.Database) *MongoActivityLog {
	return &MongoActivityLog{col: db.Collection(ActivityCollection)}
}

// EnsureIndexes configures indexes for the activity collection.
// Called on startup from main after Mongo has connected.
func (l *MongoActivityLog) EnsureIndexes(ctx context.Context) error {
	_, err := l.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_username_created_at"),
		},
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("idx_event_id").SetUnique(true),
		},
	})
	return err
}

func (l *MongoActivityLog) Record(ctx context.Context, event models.ActivityEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := l.col.InsertOne(ctx, event)
	return err
}

// PurgeUser removes every event of a deleted account.
func (l *MongoActivityLog) PurgeUser(ctx context.Context, username string) error {
	_, err := l.col.DeleteMany(ctx, bson.M{"username": username})
	return err
}

// NopActivityLog is used when MongoDB is not configured.
type NopActivityLog struct{}

func (NopActivityLog) Record(context.Context, models.ActivityEvent) error { return nil }

func (NopActivityLog) PurgeUser(context.Context, string) error { return nil }
