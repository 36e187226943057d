package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/evrodrive/leadgate/pkg/logging"
)

const leadsCollection = "leads"

// MongoRepository stores leads in a MongoDB collection. The document layout
// follows the bson tags on Lead; _id is a UUID string, not an ObjectID.
type MongoRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoRepository builds a repository on the given database handle.
func NewMongoRepository(db *mongo.Database, logger *logging.Logger) *MongoRepository {
	if db == nil {
		panic("leads: mongo database cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MongoRepository{
		collection: db.Collection(leadsCollection),
		logger:     logger,
	}
}

// Create inserts a new lead document with a server-assigned id and timestamp.
func (r *MongoRepository) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	stored := *lead
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, &stored); err != nil {
		return nil, fmt.Errorf("leads: failed to persist lead: %w", err)
	}

	r.logger.Debug("lead persisted", "id", stored.ID, "collection", leadsCollection)
	return &stored, nil
}

// GetByID fetches a lead by id.
func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	var lead Lead
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: failed to fetch lead: %w", err)
	}
	return &lead, nil
}

// ListAll returns every lead ordered by creation time descending.
func (r *MongoRepository) ListAll(ctx context.Context) ([]*Lead, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("leads: failed to list leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []*Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("leads: failed to decode leads: %w", err)
	}
	return leads, nil
}

var _ Repository = (*MongoRepository)(nil)
