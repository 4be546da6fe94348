package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/dinopark/internal/domain/models"
)

const reportsCollection = "park_reports"

// ErrReportNotFound is returned when no report was stored for a park yet.
var ErrReportNotFound = errors.New("park report not found")

// Repository defines the interface for report storage.
type Repository interface {
	SaveParkReport(ctx context.Context, report models.ParkReport) error
	LatestParkReport(ctx context.Context, parkName string) (*models.ParkReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository connects to uri and returns a repository storing into dbName.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return NewRepositoryWithClient(client, dbName), nil
}

// NewRepositoryWithClient wraps an already connected client.
func NewRepositoryWithClient(client *mongo.Client, dbName string) *MongoDBRepository {
	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: reportsCollection,
	}
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveParkReport stores a park report snapshot.
func (r *MongoDBRepository) SaveParkReport(ctx context.Context, report models.ParkReport) error {
	if _, err := r.collection().InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert park report: %w", err)
	}
	return nil
}

// LatestParkReport returns the most recently generated report for parkName.
func (r *MongoDBRepository) LatestParkReport(ctx context.Context, parkName string) (*models.ParkReport, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var report models.ParkReport
	err := r.collection().FindOne(ctx, bson.M{"park_name": parkName}, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("latest report for %s: %w", parkName, ErrReportNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest park report: %w", err)
	}
	return &report, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
