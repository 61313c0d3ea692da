package doctorRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDoctorRepo struct {
	coll *mongo.Collection
}

// NewMongoDoctorRepo returns a DoctorRepository backed by db.
func NewMongoDoctorRepo(db *mongo.Database) DoctorRepository {
	return &mongoDoctorRepo{coll: db.Collection("doctors")}
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *mongoDoctorRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specialty", Value: 1}, {Key: "verificationStatus", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create doctor indexes: %w", err)
	}
	return nil
}

func (r *mongoDoctorRepo) Create(ctx context.Context, doc *models.Doctor) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *mongoDoctorRepo) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	var doc models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find doctor with id %s: %w", id, err)
	}
	return &doc, nil
}

func (r *mongoDoctorRepo) ListBySpecialty(ctx context.Context, specialty string) ([]models.Doctor, error) {
	filter := bson.M{"specialty": specialty, "verificationStatus": models.DoctorVerified}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := []models.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}
