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

const assetCollectionName = "assets"

// mongoAssetRepository implements repository.AssetRepository
type mongoAssetRepository struct {
	collection *mongo.Collection
}

// NewMongoAssetRepository creates a new Asset repository backed by MongoDB.
func NewMongoAssetRepository(db *mongo.Database) repository.AssetRepository {
	return &mongoAssetRepository{
		collection: db.Collection(assetCollectionName),
	}
}

// Create inserts new asset metadata into the database.
func (r *mongoAssetRepository) Create(ctx context.Context, asset *domain.Asset) (primitive.ObjectID, error) {
	if asset.LessonID == primitive.NilObjectID ||
		asset.CourseID == primitive.NilObjectID ||
		asset.InstructorID == primitive.NilObjectID ||
		asset.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("asset requires lessonId, courseId, instructorId, and s3ObjectKey")
	}

	asset.ID = primitive.NewObjectID()
	asset.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, asset)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves asset metadata by its ID.
func (r *mongoAssetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Asset, error) {
	var asset domain.Asset
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&asset)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// GetByLessonID retrieves the asset linked to a specific lesson.
// The latest upload wins when a lesson's video has been replaced.
func (r *mongoAssetRepository) GetByLessonID(ctx context.Context, lessonID primitive.ObjectID) (*domain.Asset, error) {
	var asset domain.Asset
	filter := bson.M{"lessonId": lessonID}

	findOneOptions := options.FindOne().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOneOptions).Decode(&asset)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// EnsureAssetIndexes creates necessary indexes for the assets collection.
func EnsureAssetIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "lessonId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "courseId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
