package mongo

import (
	"context"
	"errors"
	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const studentCollectionName = "students"

// mongoStudentRepository implements repository.StudentRepository
type mongoStudentRepository struct {
	collection *mongo.Collection
}

// NewMongoStudentRepository creates a new Student repository backed by MongoDB.
func NewMongoStudentRepository(db *mongo.Database) repository.StudentRepository {
	return &mongoStudentRepository{
		collection: db.Collection(studentCollectionName),
	}
}

// Create inserts a new student. RegistrationDate is set here.
func (r *mongoStudentRepository) Create(ctx context.Context, student *domain.Student) (primitive.ObjectID, error) {
	if student.Name == "" || student.Phone == "" {
		return primitive.NilObjectID, errors.New("student name and phone are required")
	}

	student.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	student.RegistrationDate = now
	student.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, student)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted student ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single student by ID.
func (r *mongoStudentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Student, error) {
	var student domain.Student
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// List returns students sorted by name. A nil trainerID lists everyone.
func (r *mongoStudentRepository) List(ctx context.Context, trainerID *primitive.ObjectID) ([]domain.Student, error) {
	filter := bson.M{}
	if trainerID != nil {
		filter["trainerId"] = *trainerID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []domain.Student
	if err = cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListLatest returns the most recently registered students.
func (r *mongoStudentRepository) ListLatest(ctx context.Context, trainerID *primitive.ObjectID, limit int64) ([]domain.Student, error) {
	filter := bson.M{}
	if trainerID != nil {
		filter["trainerId"] = *trainerID
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "registrationDate", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []domain.Student
	if err = cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Update replaces the editable fields of a student. Last write wins.
func (r *mongoStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	if student.ID == primitive.NilObjectID {
		return errors.New("student ID is required for update")
	}

	student.UpdatedAt = time.Now().UTC()
	// Replace everything except _id and registrationDate
	set := bson.M{
		"trainerId":           student.TrainerID,
		"name":                student.Name,
		"idNumber":            student.IDNumber,
		"phone":               student.Phone,
		"email":               student.Email,
		"dob":                 student.BirthDate,
		"plan":                student.Plan,
		"address":             student.Address,
		"height":              student.Height,
		"weight":              student.Weight,
		"healthInfo":          student.HealthInfo,
		"trainingStartDate":   student.TrainingStartDate,
		"trainingFrequency":   student.TrainingFrequency,
		"trainingHistory":     student.TrainingHistory,
		"paymentMethod":       student.PaymentMethod,
		"paymentStatus":       student.PaymentStatus,
		"renewalDate":         student.RenewalDate,
		"trainerNotes":        student.TrainerNotes,
		"goalsAndPreferences": student.GoalsAndPreferences,
		"updatedAt":           student.UpdatedAt,
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": student.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a student. Routines pointing at the student are not touched.
func (r *mongoStudentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureStudentIndexes creates necessary indexes. Call during startup.
func EnsureStudentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "registrationDate", Value: -1}},
			Options: options.Index(),
		},
	}
	createIndexes(ctx, collection, indexes)
}
