package mongo

import (
	"context"
	"errors"
	"time"

	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const enrollmentCollectionName = "enrollments"

// mongoEnrollmentRepository implements repository.EnrollmentRepository
type mongoEnrollmentRepository struct {
	collection *mongo.Collection
}

// NewMongoEnrollmentRepository creates a new Enrollment repository backed by MongoDB.
func NewMongoEnrollmentRepository(db *mongo.Database) repository.EnrollmentRepository {
	return &mongoEnrollmentRepository{
		collection: db.Collection(enrollmentCollectionName),
	}
}

// Create inserts a new enrollment into the database.
func (r *mongoEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) (primitive.ObjectID, error) {
	if enrollment.CourseID == primitive.NilObjectID || enrollment.LearnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("enrollment requires courseId and learnerId")
	}

	enrollment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	enrollment.EnrolledAt = now
	enrollment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, enrollment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByCourseAndLearner retrieves the enrollment linking a learner to a course.
func (r *mongoEnrollmentRepository) GetByCourseAndLearner(ctx context.Context, courseID, learnerID primitive.ObjectID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	filter := bson.M{"courseId": courseID, "learnerId": learnerID}

	err := r.collection.FindOne(ctx, filter).Decode(&enrollment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// GetByLearnerID retrieves all enrollments of a learner, newest first.
func (r *mongoEnrollmentRepository) GetByLearnerID(ctx context.Context, learnerID primitive.ObjectID) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	filter := bson.M{"learnerId": learnerID}

	findOptions := options.Find().SetSort(bson.D{{Key: "enrolledAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}

	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// AddCompletedLesson records a lesson completion, de-duplicated via $addToSet.
func (r *mongoEnrollmentRepository) AddCompletedLesson(ctx context.Context, enrollmentID, lessonID primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{"_id": enrollmentID}
	update := bson.M{
		"$addToSet": bson.M{"completedLessons": lessonID},
		"$set":      bson.M{"lastAccessedAt": now, "updatedAt": now},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EnsureEnrollmentIndexes creates necessary indexes for the enrollments collection.
func EnsureEnrollmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One enrollment per (course, learner) pair
			Keys:    bson.D{{Key: "courseId", Value: 1}, {Key: "learnerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "learnerId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
