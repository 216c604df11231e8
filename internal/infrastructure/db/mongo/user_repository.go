package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xivapi/common-backend/internal/core/domain"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

type discordDocument struct {
	ID           string `bson:"id"`
	Avatar       string `bson:"avatar"`
	TokenAccess  string `bson:"token_access"`
	TokenExpires int64  `bson:"token_expires"`
	TokenRefresh string `bson:"token_refresh"`
}

type alertQuotaDocument struct {
	Max               int   `bson:"max"`
	ExpirySeconds     int64 `bson:"expiry"`
	UpdateAllowed     bool  `bson:"update"`
	NotificationCount int   `bson:"notification_count"`
}

type userDocument struct {
	ID              string             `bson:"_id"`
	CreatedAt       int64              `bson:"created_at"`
	Banned          bool               `bson:"banned"`
	Notes           string             `bson:"notes"`
	SSO             string             `bson:"sso"`
	Username        string             `bson:"username"`
	Email           string             `bson:"email"`
	Discord         discordDocument    `bson:"discord"`
	Patron          int                `bson:"patron"`
	Permissions     string             `bson:"permissions"`
	APIPublicKey    string             `bson:"api_public_key"`
	APIAnalyticsKey string             `bson:"api_analytics_key"`
	APIRateLimit    int                `bson:"api_rate_limit"`
	Alerts          alertQuotaDocument `bson:"alerts"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:        u.ID,
		CreatedAt: timeToUnix(u.CreatedAt),
		Banned:    u.Banned,
		Notes:     u.Notes,
		SSO:       u.SSO,
		Username:  u.Username,
		Email:     u.Email,
		Discord: discordDocument{
			ID:           u.Discord.ID,
			Avatar:       u.Discord.Avatar,
			TokenAccess:  u.Discord.TokenAccess,
			TokenExpires: timeToUnix(u.Discord.TokenExpires),
			TokenRefresh: u.Discord.TokenRefresh,
		},
		Patron:          int(u.Patron),
		Permissions:     strings.Join(u.Permissions, ","),
		APIPublicKey:    u.APIPublicKey,
		APIAnalyticsKey: u.APIAnalyticsKey,
		APIRateLimit:    u.APIRateLimit,
		Alerts: alertQuotaDocument{
			Max:               u.Alerts.Max,
			ExpirySeconds:     int64(u.Alerts.Expiry / time.Second),
			UpdateAllowed:     u.Alerts.UpdateAllowed,
			NotificationCount: u.Alerts.NotificationCount,
		},
	}
}

func (d userDocument) toDomain() *domain.User {
	permissions := []string{}
	if d.Permissions != "" {
		permissions = strings.Split(d.Permissions, ",")
	}
	return &domain.User{
		ID:        d.ID,
		CreatedAt: unixToTime(d.CreatedAt),
		Banned:    d.Banned,
		Notes:     d.Notes,
		SSO:       d.SSO,
		Username:  d.Username,
		Email:     d.Email,
		Discord: domain.DiscordAccount{
			ID:           d.Discord.ID,
			Avatar:       d.Discord.Avatar,
			TokenAccess:  d.Discord.TokenAccess,
			TokenExpires: unixToTime(d.Discord.TokenExpires),
			TokenRefresh: d.Discord.TokenRefresh,
		},
		Patron:          domain.PatronTier(d.Patron),
		Permissions:     permissions,
		APIPublicKey:    d.APIPublicKey,
		APIAnalyticsKey: d.APIAnalyticsKey,
		APIRateLimit:    d.APIRateLimit,
		Alerts: domain.AlertQuota{
			Max:               d.Alerts.Max,
			Expiry:            time.Duration(d.Alerts.ExpirySeconds) * time.Second,
			UpdateAllowed:     d.Alerts.UpdateAllowed,
			NotificationCount: d.Alerts.NotificationCount,
		},
	}
}

// userUpdate splits a document into mutable fields and the fields written
// only when the user is first inserted.
func userUpdate(u *domain.User) bson.M {
	doc := toUserDocument(u)
	return bson.M{
		"$set": bson.M{
			"banned":            doc.Banned,
			"notes":             doc.Notes,
			"sso":               doc.SSO,
			"username":          doc.Username,
			"email":             doc.Email,
			"discord":           doc.Discord,
			"patron":            doc.Patron,
			"permissions":       doc.Permissions,
			"api_public_key":    doc.APIPublicKey,
			"api_analytics_key": doc.APIAnalyticsKey,
			"api_rate_limit":    doc.APIRateLimit,
			"alerts":            doc.Alerts,
		},
		"$setOnInsert": bson.M{
			"created_at": doc.CreatedAt,
		},
	}
}

// Save upserts the user. The id and creation time are never overwritten.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.save(ctx, u)
}

func (r *UserRepository) save(ctx context.Context, u *domain.User) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": u.ID}, userUpdate(u), options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("save user: %w", domain.ErrUserExists)
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByDiscordID(ctx context.Context, discordID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"discord.id": discordID})
}

func (r *UserRepository) FindByAPIKey(ctx context.Context, key string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"api_public_key": key})
}

func (r *UserRepository) APIKeyExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"api_public_key": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count api key: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindByPatron(ctx context.Context, tier domain.PatronTier) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	return r.find(ctx, bson.M{"patron": int(tier)}, opts)
}

// ListLinked returns every user with a linked Discord account.
func (r *UserRepository) ListLinked(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{"discord.id": bson.M{"$gt": ""}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}
