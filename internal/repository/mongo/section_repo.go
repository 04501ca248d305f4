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

const sectionCollectionName = "sections"

// mongoSectionRepository implements repository.SectionRepository
type mongoSectionRepository struct {
	collection *mongo.Collection
}

// NewMongoSectionRepository creates a new Section repository backed by MongoDB.
func NewMongoSectionRepository(db *mongo.Database) repository.SectionRepository {
	return &mongoSectionRepository{
		collection: db.Collection(sectionCollectionName),
	}
}

// Create inserts a new section into the database.
func (r *mongoSectionRepository) Create(ctx context.Context, section *domain.Section) (primitive.ObjectID, error) {
	if section.Title == "" || section.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("section title and course ID are required")
	}

	section.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, section)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByCourseID retrieves all sections of a course in course order.
func (r *mongoSectionRepository) GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Section, error) {
	var sections []domain.Section
	filter := bson.M{"courseId": courseID}

	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sections); err != nil {
		return nil, err
	}

	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// CountByCourseID counts the sections already present in a course. Used by the
// bulk importer to continue order_index numbering on repeated imports.
func (r *mongoSectionRepository) CountByCourseID(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"courseId": courseID})
}

// EnsureSectionIndexes creates necessary indexes for the sections collection.
func EnsureSectionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "courseId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
