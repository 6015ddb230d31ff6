package reports

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const mongoCollection = "reports"

// MongoRepo implements Repo on a MongoDB collection.
type MongoRepo struct {
	coll *mongo.Collection
}

// NewMongoRepo creates a repo backed by the reports collection of db.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(mongoCollection)}
}

type mongoReport struct {
	ID              string    `bson:"_id"`
	SubjectID       string    `bson:"subjectId"`
	SubjectKey      string    `bson:"subjectKey"`
	GeneratedAt     time.Time `bson:"generatedAt"`
	StorageProvider string    `bson:"storageProvider"`
	StorageKey      string    `bson:"storageKey"`
	SizeBytes       int64     `bson:"sizeBytes"`
	TotalScore      *float64  `bson:"totalScore,omitempty"`
	Tier            string    `bson:"tier,omitempty"`
	ReadinessScore  *float64  `bson:"readinessScore,omitempty"`
	AllClear        bool      `bson:"allClear"`
	Body            string    `bson:"body"`
	CreatedAt       time.Time `bson:"createdAt"`
}

// Create inserts a report document.
func (r *MongoRepo) Create(ctx context.Context, rep Report) error {
	_, err := r.coll.InsertOne(ctx, mongoReport(rep))
	if mongo.IsDuplicateKeyError(err) {
		return ErrInvalidInput
	}
	return err
}

// GetByID fetches a report document by ID.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (Report, error) {
	var doc mongoReport
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}
	return Report(doc), nil
}

var _ Repo = (*MongoRepo)(nil)
