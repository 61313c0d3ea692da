package appointmentRepo

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

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns an AppointmentRepository backed by db.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepo{coll: db.Collection("appointments")}
}

func (r *mongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "idempotencyKey", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "startTime", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}
	appt.UpdatedAt = appt.CreatedAt

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create appointment: %w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoAppointmentRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"idempotencyKey": key})
}

func (r *mongoAppointmentRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{"reminderSentAt": at, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentRepo) findOne(ctx context.Context, filter bson.M) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.coll.FindOne(ctx, filter).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return &appt, nil
}
