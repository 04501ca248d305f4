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

const lessonCollectionName = "lessons"

// mongoLessonRepository implements repository.LessonRepository
type mongoLessonRepository struct {
	collection *mongo.Collection
}

// NewMongoLessonRepository creates a new Lesson repository backed by MongoDB.
func NewMongoLessonRepository(db *mongo.Database) repository.LessonRepository {
	return &mongoLessonRepository{
		collection: db.Collection(lessonCollectionName),
	}
}

// CreateMany inserts all lessons of one section as a single batched write.
// Ordered insert: a mid-batch failure reports the error and stops that batch,
// without touching lessons of other sections.
func (r *mongoLessonRepository) CreateMany(ctx context.Context, lessons []domain.Lesson) ([]primitive.ObjectID, error) {
	if len(lessons) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(lessons))
	ids := make([]primitive.ObjectID, 0, len(lessons))
	for i := range lessons {
		if lessons[i].Title == "" || lessons[i].SectionID == primitive.NilObjectID {
			return nil, errors.New("lesson title and section ID are required")
		}
		lessons[i].ID = primitive.NewObjectID()
		lessons[i].CreatedAt = now
		lessons[i].UpdatedAt = now
		if lessons[i].Status == "" {
			lessons[i].Status = domain.LessonStatusDraft
		}
		docs = append(docs, lessons[i])
		ids = append(ids, lessons[i].ID)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// GetByID retrieves a lesson by its ID.
func (r *mongoLessonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// GetBySectionID retrieves all lessons of a section in section order.
func (r *mongoLessonRepository) GetBySectionID(ctx context.Context, sectionID primitive.ObjectID) ([]domain.Lesson, error) {
	return r.find(ctx, bson.M{"sectionId": sectionID})
}

// GetByCourseID retrieves all lessons of a course, ordered within sections.
func (r *mongoLessonRepository) GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Lesson, error) {
	return r.find(ctx, bson.M{"courseId": courseID})
}

func (r *mongoLessonRepository) find(ctx context.Context, filter bson.M) ([]domain.Lesson, error) {
	var lessons []domain.Lesson

	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}

	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return lessons, nil
}

// SetVideoURL updates a lesson's video URL (and type) after a confirmed upload.
func (r *mongoLessonRepository) SetVideoURL(ctx context.Context, id primitive.ObjectID, videoURL string) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"videoUrl":  videoURL,
		"type":      domain.LessonTypeVideo,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EnsureLessonIndexes creates necessary indexes for the lessons collection.
func EnsureLessonIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sectionId", Value: 1}, {Key: "orderIndex", Value: 1}},
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
