package dynamodb

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/core/entities"
	"ideavine-backend/domain/core/valueobjects"
	pkgerrors "ideavine-backend/pkg/errors"
	"ideavine-backend/pkg/utils"
)

// MindMapRepository implements ports.MindMapRepository on DynamoDB.
// The owner half of every key comes straight out of the composite
// mindmap identifier, so point reads need no index.
type MindMapRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewMindMapRepository creates a DynamoDB-backed mindmap repository.
func NewMindMapRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *MindMapRepository {
	return &MindMapRepository{client: client, tableName: tableName, logger: logger}
}

type mindmapItem struct {
	PK           string                   `dynamodbav:"PK"`
	SK           string                   `dynamodbav:"SK"`
	EntityType   string                   `dynamodbav:"EntityType"`
	MindmapID    string                   `dynamodbav:"MindmapID"`
	UserUID      string                   `dynamodbav:"UserUID"`
	Title        string                   `dynamodbav:"Title"`
	Description  string                   `dynamodbav:"Description"`
	CreatedAt    string                   `dynamodbav:"CreatedAt"`
	UpdatedAt    string                   `dynamodbav:"UpdatedAt"`
	LastAccessed string                   `dynamodbav:"LastAccessed"`
	IsDeleted    bool                     `dynamodbav:"IsDeleted"`
	Sharing      entities.Sharing         `dynamodbav:"Sharing"`
	Metadata     entities.MindMapMetadata `dynamodbav:"Metadata"`
}

func newMindMapItem(m *entities.MindMap) mindmapItem {
	return mindmapItem{
		PK:           userPK(m.UserUID),
		SK:           mindmapSK(m.ID),
		EntityType:   entityTypeMindMap,
		MindmapID:    m.ID,
		UserUID:      m.UserUID,
		Title:        m.Title,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    m.UpdatedAt.UTC().Format(time.RFC3339Nano),
		LastAccessed: m.LastAccessed.UTC().Format(time.RFC3339Nano),
		IsDeleted:    m.IsDeleted,
		Sharing:      m.Sharing,
		Metadata:     m.Metadata,
	}
}

func (i mindmapItem) toEntity() (*entities.MindMap, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt mindmap record").WithCause(err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt mindmap record").WithCause(err)
	}
	lastAccessed, err := utils.ParseRFC3339(i.LastAccessed)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt mindmap record").WithCause(err)
	}
	return &entities.MindMap{
		ID:           i.MindmapID,
		UserUID:      i.UserUID,
		Title:        i.Title,
		Description:  i.Description,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		LastAccessed: lastAccessed,
		IsDeleted:    i.IsDeleted,
		Sharing:      i.Sharing,
		Metadata:     i.Metadata,
	}, nil
}

// mindmapKey resolves the table key for a mindmap from its composite
// identifier. Malformed identifiers cannot name a stored record.
func mindmapKey(id string) (map[string]types.AttributeValue, error) {
	mid, err := valueobjects.NewMindMapIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewNotFoundError("Mindmap")
	}
	return attributevalue.MarshalMap(map[string]string{
		"PK": userPK(mid.OwnerID()),
		"SK": mindmapSK(id),
	})
}

func (r *MindMapRepository) Create(ctx context.Context, mindmap *entities.MindMap) error {
	av, err := attributevalue.MarshalMap(newMindMapItem(mindmap))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal mindmap").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("Mindmap already exists")
		}
		return pkgerrors.NewDatabaseError("create mindmap", err)
	}

	r.logger.Debug("mindmap stored", zap.String("mindmap_id", mindmap.ID))
	return nil
}

func (r *MindMapRepository) GetByID(ctx context.Context, id string) (*entities.MindMap, error) {
	key, err := mindmapKey(id)
	if err != nil {
		return nil, err
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get mindmap", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("Mindmap")
	}

	var item mindmapItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal mindmap").WithCause(err)
	}
	if item.IsDeleted {
		return nil, pkgerrors.NewNotFoundError("Mindmap")
	}
	return item.toEntity()
}

func (r *MindMapRepository) ListByUser(ctx context.Context, userUID string) ([]*entities.MindMap, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(userPK(userUID))).
			And(expression.Key("SK").BeginsWith(mindmapPrefix))).
		WithFilter(expression.Name("IsDeleted").Equal(expression.Value(false))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build mindmap query").WithCause(err)
	}

	out := []*entities.MindMap{}
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list mindmaps", err)
		}
		for _, raw := range result.Items {
			var item mindmapItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal mindmap").WithCause(err)
			}
			mindmap, err := item.toEntity()
			if err != nil {
				return nil, err
			}
			out = append(out, mindmap)
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MindMapRepository) CountByUser(ctx context.Context, userUID string) (int, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(userPK(userUID))).
			And(expression.Key("SK").BeginsWith(mindmapPrefix))).
		WithFilter(expression.Name("IsDeleted").Equal(expression.Value(false))).
		Build()
	if err != nil {
		return 0, pkgerrors.NewInternalError("failed to build mindmap count").WithCause(err)
	}

	count := 0
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, pkgerrors.NewDatabaseError("count mindmaps", err)
		}
		count += int(result.Count)
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return count, nil
}

func (r *MindMapRepository) UpdateFields(ctx context.Context, id string, update ports.MindMapFieldUpdate) error {
	upd := expression.Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))
	if update.Title != nil {
		upd = upd.Set(expression.Name("Title"), expression.Value(*update.Title))
	}
	if update.Description != nil {
		upd = upd.Set(expression.Name("Description"), expression.Value(*update.Description))
	}
	if update.Tags != nil {
		upd = upd.Set(expression.Name("Metadata.Tags"), expression.Value(update.Tags))
	}
	return r.updateLive(ctx, id, upd, "update mindmap")
}

func (r *MindMapRepository) UpdateStats(ctx context.Context, id string, totalNodes, maxDepth int) error {
	upd := expression.
		Set(expression.Name("Metadata.TotalNodes"), expression.Value(totalNodes)).
		Set(expression.Name("Metadata.MaxDepth"), expression.Value(maxDepth)).
		Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))
	return r.updateLive(ctx, id, upd, "update mindmap stats")
}

func (r *MindMapRepository) TouchLastAccessed(ctx context.Context, id string) error {
	upd := expression.Set(expression.Name("LastAccessed"), expression.Value(utils.NowRFC3339()))
	return r.updateLive(ctx, id, upd, "touch mindmap")
}

func (r *MindMapRepository) SoftDelete(ctx context.Context, id string) error {
	upd := expression.
		Set(expression.Name("IsDeleted"), expression.Value(true)).
		Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))
	return r.updateLive(ctx, id, upd, "soft delete mindmap")
}

// updateLive applies an update to a mindmap that exists and is not
// soft-deleted; anything else reports not found.
func (r *MindMapRepository) updateLive(ctx context.Context, id string, upd expression.UpdateBuilder, operation string) error {
	key, err := mindmapKey(id)
	if err != nil {
		return err
	}

	expr, err := expression.NewBuilder().
		WithUpdate(upd).
		WithCondition(expression.AttributeExists(expression.Name("PK")).
			And(expression.Name("IsDeleted").Equal(expression.Value(false)))).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build mindmap update").WithCause(err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("Mindmap")
		}
		return pkgerrors.NewDatabaseError(operation, err)
	}
	return nil
}
