package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xivapi/common-backend/internal/core/domain"
)

const maintenanceID = "maintenance"

type MaintenanceRepository struct {
	coll *mongo.Collection
}

func NewMaintenanceRepository(db *mongo.Database) *MaintenanceRepository {
	return &MaintenanceRepository{coll: db.Collection(collectionMaintenance)}
}

type maintenanceDocument struct {
	ID        string `bson:"_id"`
	Game      int    `bson:"game"`
	Lodestone int    `bson:"lodestone"`
	Companion int    `bson:"companion"`
	UpdatedAt int64  `bson:"updated_at"`
}

// Get returns nil without error when no record has been written yet.
func (r *MaintenanceRepository) Get(ctx context.Context) (*domain.Maintenance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc maintenanceDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": maintenanceID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find maintenance: %w", err)
	}
	return &domain.Maintenance{
		Game:      doc.Game,
		Lodestone: doc.Lodestone,
		Companion: doc.Companion,
		UpdatedAt: unixToTime(doc.UpdatedAt),
	}, nil
}

func (r *MaintenanceRepository) Save(ctx context.Context, m *domain.Maintenance) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := maintenanceDocument{
		ID:        maintenanceID,
		Game:      m.Game,
		Lodestone: m.Lodestone,
		Companion: m.Companion,
		UpdatedAt: timeToUnix(m.UpdatedAt),
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": maintenanceID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save maintenance: %w", err)
	}
	return nil
}
