package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xivapi/common-backend/internal/core/domain"
)

type AlertRepository struct {
	coll *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{coll: db.Collection(collectionAlerts)}
}

type alertDocument struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	Name      string `bson:"name"`
	ItemID    int    `bson:"item_id"`
	Expiry    int64  `bson:"expiry"`
	CreatedAt int64  `bson:"created_at"`
}

func (d alertDocument) toDomain() *domain.Alert {
	return &domain.Alert{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		ItemID:    d.ItemID,
		Expiry:    unixToTime(d.Expiry),
		CreatedAt: unixToTime(d.CreatedAt),
	}
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find alerts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []alertDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}

	alerts := make([]*domain.Alert, 0, len(docs))
	for _, d := range docs {
		alerts = append(alerts, d.toDomain())
	}
	return alerts, nil
}

func (r *AlertRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return int(n), nil
}

func (r *AlertRepository) Create(ctx context.Context, a *domain.Alert) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := alertDocument{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		ItemID:    a.ItemID,
		Expiry:    timeToUnix(a.Expiry),
		CreatedAt: timeToUnix(a.CreatedAt),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ExtendExpiries sends every change as one unordered bulk write.
func (r *AlertRepository) ExtendExpiries(ctx context.Context, changes []domain.AlertExpiry) error {
	if len(changes) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(changes))
	for _, c := range changes {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": c.AlertID}).
			SetUpdate(bson.M{"$set": bson.M{"expiry": timeToUnix(c.Expiry)}}))
	}

	if _, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("extend alert expiries: %w", err)
	}
	return nil
}
