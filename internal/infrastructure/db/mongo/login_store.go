package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// LoginStore writes a user and a new session inside one transaction, so a
// failed login leaves neither behind. Transactions need a replica set.
type LoginStore struct {
	client   *mongo.Client
	users    *UserRepository
	sessions *SessionRepository
}

func NewLoginStore(client *mongo.Client, db *mongo.Database) *LoginStore {
	return &LoginStore{
		client:   client,
		users:    NewUserRepository(db),
		sessions: NewSessionRepository(db),
	}
}

func (s *LoginStore) SaveLogin(ctx context.Context, user *domain.User, session *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := s.users.save(sc, user); err != nil {
			return nil, err
		}
		if err := s.sessions.insert(sc, session); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("save login: %w", err)
	}
	return nil
}
