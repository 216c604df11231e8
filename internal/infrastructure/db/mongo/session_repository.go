package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xivapi/common-backend/internal/core/domain"
)

type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(collectionSessions)}
}

type sessionDocument struct {
	ID         string `bson:"_id"`
	TokenHash  string `bson:"token_hash"`
	UserID     string `bson:"user_id"`
	CreatedAt  int64  `bson:"created_at"`
	LastActive int64  `bson:"last_active"`
}

func toSessionDocument(s *domain.Session) sessionDocument {
	return sessionDocument{
		ID:         s.ID,
		TokenHash:  s.TokenHash,
		UserID:     s.UserID,
		CreatedAt:  timeToUnix(s.CreatedAt),
		LastActive: timeToUnix(s.LastActive),
	}
}

func (d sessionDocument) toDomain() *domain.Session {
	return &domain.Session{
		ID:         d.ID,
		TokenHash:  d.TokenHash,
		UserID:     d.UserID,
		CreatedAt:  unixToTime(d.CreatedAt),
		LastActive: unixToTime(d.LastActive),
	}
}

func (r *SessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sessionDocument
	if err := r.coll.FindOne(ctx, bson.M{"token_hash": tokenHash}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateLastActive writes only the last-active time. The owner of a session
// never changes.
func (r *SessionRepository) UpdateLastActive(ctx context.Context, s *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": s.ID},
		bson.M{"$set": bson.M{"last_active": timeToUnix(s.LastActive)}},
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) insert(ctx context.Context, s *domain.Session) error {
	if _, err := r.coll.InsertOne(ctx, toSessionDocument(s)); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}
