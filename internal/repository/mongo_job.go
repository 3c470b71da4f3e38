package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobportal/jobportal-go/internal/model"
)

type jobDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        primitive.ObjectID `bson:"user"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	LastDate    time.Time          `bson:"lastDate"`
	Company     string             `bson:"company"`
	DriveType   string             `bson:"driveType"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *jobDoc) toModel() *model.Job {
	return &model.Job{
		ID:          d.ID.Hex(),
		UserID:      hexOrEmpty(d.User),
		Title:       d.Title,
		Company:     d.Company,
		Description: d.Description,
		LastDate:    d.LastDate.UTC(),
		DriveType:   model.DriveType(d.DriveType),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoJobRepository handles job persistence in MongoDB.
type MongoJobRepository struct {
	col *mongo.Collection
}

// NewMongoJobRepository creates a new MongoJobRepository.
func NewMongoJobRepository(db *mongo.Database) *MongoJobRepository {
	return &MongoJobRepository{col: db.Collection(jobsCollection)}
}

// Create inserts a new job and sets the generated ID and timestamps on it.
func (r *MongoJobRepository) Create(ctx context.Context, job *model.Job) error {
	owner, err := primitive.ObjectIDFromHex(job.UserID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", job.UserID, err)
	}

	now := time.Now().UTC()
	res, err := r.col.InsertOne(ctx, jobDoc{
		User:        owner,
		Title:       job.Title,
		Description: job.Description,
		LastDate:    job.LastDate,
		Company:     job.Company,
		DriveType:   string(job.DriveType),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	job.ID = res.InsertedID.(primitive.ObjectID).Hex()
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

// GetByID retrieves a job by its ID.
func (r *MongoJobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrJobNotFound
	}

	var doc jobDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return doc.toModel(), nil
}

// List returns all jobs, newest first.
func (r *MongoJobRepository) List(ctx context.Context) ([]model.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []jobDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]model.Job, len(docs))
	for i := range docs {
		jobs[i] = *docs[i].toModel()
	}
	return jobs, nil
}

// Update writes the mutable fields of a job. The owner is never written.
func (r *MongoJobRepository) Update(ctx context.Context, job *model.Job) error {
	oid, err := primitive.ObjectIDFromHex(job.ID)
	if err != nil {
		return ErrJobNotFound
	}

	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":       job.Title,
		"description": job.Description,
		"lastDate":    job.LastDate,
		"company":     job.Company,
		"driveType":   string(job.DriveType),
		"updatedAt":   now,
	}})
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrJobNotFound
	}

	job.UpdatedAt = now
	return nil
}

// Delete removes a job.
func (r *MongoJobRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrJobNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}
