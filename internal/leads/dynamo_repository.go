package leads

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/evrodrive/leadgate/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// leadItem is the DynamoDB shape of a Lead. Timestamps are stored as
// RFC3339Nano strings so records sort and display consistently.
type leadItem struct {
	ID                string            `dynamodbav:"id"`
	FirstName         string            `dynamodbav:"firstName"`
	LastName          string            `dynamodbav:"lastName"`
	Email             string            `dynamodbav:"email"`
	Phone             string            `dynamodbav:"phone"`
	Country           string            `dynamodbav:"country"`
	PreferredLanguage string            `dynamodbav:"preferredLanguage"`
	ModelID           string            `dynamodbav:"modelId"`
	ModelName         string            `dynamodbav:"modelName,omitempty"`
	Budget            *float64          `dynamodbav:"budget"`
	Message           string            `dynamodbav:"message"`
	GDPRConsent       bool              `dynamodbav:"gdprConsent"`
	UTM               map[string]string `dynamodbav:"utm,omitempty"`
	CreatedAt         string            `dynamodbav:"createdAt"`
}

// DynamoRepository persists leads to a DynamoDB table keyed by id.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewDynamoRepository builds a repository backed by the provided DynamoDB client.
func NewDynamoRepository(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoRepository {
	if client == nil {
		panic("leads: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("leads: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Create inserts a new lead record with a server-assigned id and timestamp.
func (r *DynamoRepository) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	stored := *lead
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(toItem(&stored))
	if err != nil {
		return nil, fmt.Errorf("leads: failed to marshal lead: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("leads: failed to persist lead: %w", err)
	}

	r.logger.Debug("lead persisted", "id", stored.ID, "table", r.tableName)
	return &stored, nil
}

// GetByID fetches a lead by id.
func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("leads: failed to fetch lead: %w", err)
	}
	if out.Item == nil {
		return nil, ErrLeadNotFound
	}

	var item leadItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("leads: failed to decode lead: %w", err)
	}
	return fromItem(&item), nil
}

// ListAll scans the table and returns leads ordered by creation time
// descending. The table has no sort key on createdAt, so ordering happens
// here; lead volume is small enough that a full scan is acceptable.
func (r *DynamoRepository) ListAll(ctx context.Context) ([]*Lead, error) {
	var leads []*Lead
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("leads: failed to scan leads: %w", err)
		}

		var items []leadItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("leads: failed to decode leads: %w", err)
		}
		for i := range items {
			leads = append(leads, fromItem(&items[i]))
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

func toItem(lead *Lead) *leadItem {
	return &leadItem{
		ID:                lead.ID,
		FirstName:         lead.FirstName,
		LastName:          lead.LastName,
		Email:             lead.Email,
		Phone:             lead.Phone,
		Country:           lead.Country,
		PreferredLanguage: lead.PreferredLanguage,
		ModelID:           lead.ModelID,
		ModelName:         lead.ModelName,
		Budget:            lead.Budget,
		Message:           lead.Message,
		GDPRConsent:       lead.GDPRConsent,
		UTM:               lead.UTM,
		CreatedAt:         lead.CreatedAt.Format(time.RFC3339Nano),
	}
}

func fromItem(item *leadItem) *Lead {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}
	return &Lead{
		ID:                item.ID,
		FirstName:         item.FirstName,
		LastName:          item.LastName,
		Email:             item.Email,
		Phone:             item.Phone,
		Country:           item.Country,
		PreferredLanguage: item.PreferredLanguage,
		ModelID:           item.ModelID,
		ModelName:         item.ModelName,
		Budget:            item.Budget,
		Message:           item.Message,
		GDPRConsent:       item.GDPRConsent,
		UTM:               item.UTM,
		CreatedAt:         createdAt,
	}
}

var _ Repository = (*DynamoRepository)(nil)
