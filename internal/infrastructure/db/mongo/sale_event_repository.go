package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

// SaleEventRepository implements ports.SaleEventRepository using MongoDB.
type SaleEventRepository struct {
	db *mongo.Database
}

func NewSaleEventRepository(db *mongo.Database) ports.SaleEventRepository {
	return &SaleEventRepository{db: db}
}

// InsertEvent persists a sale audit record to the sale_events collection.
// The event id is the document _id so a redelivered event is rejected.
func (r *SaleEventRepository) InsertEvent(ctx context.Context, event *domain.SaleEvent) error {
	doc := bson.M{
		"_id":         event.ID,
		"sale_id":     event.SaleID,
		"property_id": event.PropertyID,
		"operation":   string(event.Operation),
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.OldStatus != "" {
		doc["old_status"] = string(event.OldStatus)
	}
	if event.NewStatus != "" {
		doc["new_status"] = string(event.NewStatus)
	}
	if event.Availability != "" {
		doc["availability"] = string(event.Availability)
	}
	if event.ActorID != "" {
		doc["actor_id"] = event.ActorID
	}

	_, err := r.db.Collection(saleEventCollection).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
