package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobportal/jobportal-go/internal/model"
)

// userDoc mirrors the users collection. Federated-only accounts store a null
// password.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  *string            `bson:"password"`
	Photo     string             `bson:"photo"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toModel() *model.User {
	u := &model.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Photo:     d.Photo,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Password != nil {
		u.PasswordHash = *d.Password
	}
	return u
}

// MongoUserRepository handles user persistence in MongoDB.
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(usersCollection)}
}

// Create inserts a new user and sets the generated ID and timestamps on it.
// The unique email index turns a concurrent duplicate into ErrDuplicateEmail.
func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	doc := userDoc{
		Name:      user.Name,
		Email:     user.Email,
		Photo:     user.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.PasswordHash != "" {
		doc.Password = &user.PasswordHash
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = res.InsertedID.(primitive.ObjectID).Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by their ID. Malformed ids are reported as not found.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toModel(), nil
}
