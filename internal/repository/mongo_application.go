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

type programmingDoc struct {
	Java    int `bson:"java"`
	Python  int `bson:"python"`
	MERN    int `bson:"mern"`
	Testing int `bson:"testing"`
}

type applicationDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Job              primitive.ObjectID `bson:"job"`
	User             primitive.ObjectID `bson:"user"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Location         string             `bson:"location"`
	CollegeName      string             `bson:"collegeName"`
	TenthPercentage  float64            `bson:"tenthPercentage"`
	DegreePercentage float64            `bson:"degreePercentage"`
	Programming      programmingDoc     `bson:"programming"`
	Communication    float64            `bson:"communication"`
	Resume           string             `bson:"resume"`
	Status           string             `bson:"status"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d *applicationDoc) toModel() *model.Application {
	return &model.Application{
		ID:               d.ID.Hex(),
		JobID:            hexOrEmpty(d.Job),
		UserID:           hexOrEmpty(d.User),
		Name:             d.Name,
		Email:            d.Email,
		Location:         d.Location,
		CollegeName:      d.CollegeName,
		TenthPercentage:  d.TenthPercentage,
		DegreePercentage: d.DegreePercentage,
		Programming:      model.Programming(d.Programming),
		Communication:    d.Communication,
		ResumeKey:        d.Resume,
		Status:           model.ApplicationStatus(d.Status),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// MongoApplicationRepository handles application persistence in MongoDB.
type MongoApplicationRepository struct {
	col *mongo.Collection
}

// NewMongoApplicationRepository creates a new MongoApplicationRepository.
func NewMongoApplicationRepository(db *mongo.Database) *MongoApplicationRepository {
	return &MongoApplicationRepository{col: db.Collection(applicationsCollection)}
}

// Create inserts a new application and sets the generated ID and timestamps on it.
func (r *MongoApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	jobID, err := primitive.ObjectIDFromHex(app.JobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", app.JobID, err)
	}
	userID, err := primitive.ObjectIDFromHex(app.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", app.UserID, err)
	}

	now := time.Now().UTC()
	res, err := r.col.InsertOne(ctx, applicationDoc{
		Job:              jobID,
		User:             userID,
		Name:             app.Name,
		Email:            app.Email,
		Location:         app.Location,
		CollegeName:      app.CollegeName,
		TenthPercentage:  app.TenthPercentage,
		DegreePercentage: app.DegreePercentage,
		Programming:      programmingDoc(app.Programming),
		Communication:    app.Communication,
		Resume:           app.ResumeKey,
		Status:           string(app.Status),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	app.ID = res.InsertedID.(primitive.ObjectID).Hex()
	app.CreatedAt = now
	app.UpdatedAt = now
	return nil
}

// GetByID retrieves an application by its ID.
func (r *MongoApplicationRepository) GetByID(ctx context.Context, id string) (*model.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	var doc applicationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return doc.toModel(), nil
}

// ListByUser returns the applications submitted by a user, newest first.
func (r *MongoApplicationRepository) ListByUser(ctx context.Context, userID string) ([]model.Application, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.Application{}, nil
	}
	return r.find(ctx, bson.M{"user": oid})
}

// ListByJob returns the applications made to a job, newest first.
func (r *MongoApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return []model.Application{}, nil
	}
	return r.find(ctx, bson.M{"job": oid})
}

// UpdateStatus sets the review status of an application.
func (r *MongoApplicationRepository) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrApplicationNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// Delete removes an application.
func (r *MongoApplicationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrApplicationNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *MongoApplicationRepository) find(ctx context.Context, filter bson.M) ([]model.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cur.Close(ctx)

	var docs []applicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}

	apps := make([]model.Application, len(docs))
	for i := range docs {
		apps[i] = *docs[i].toModel()
	}
	return apps, nil
}
