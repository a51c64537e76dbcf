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

// NodeRepository implements ports.NodeRepository on DynamoDB. Nodes
// partition by mindmap; the owner GSI serves user-wide counts.
type NodeRepository struct {
	client     *dynamodb.Client
	tableName  string
	ownerIndex string
	logger     *zap.Logger
}

// NewNodeRepository creates a DynamoDB-backed node repository.
func NewNodeRepository(client *dynamodb.Client, tableName, ownerIndex string, logger *zap.Logger) *NodeRepository {
	return &NodeRepository{
		client:     client,
		tableName:  tableName,
		ownerIndex: ownerIndex,
		logger:     logger,
	}
}

type nodeItem struct {
	PK         string                `dynamodbav:"PK"`
	SK         string                `dynamodbav:"SK"`
	GSI2PK     string                `dynamodbav:"GSI2PK"`
	GSI2SK     string                `dynamodbav:"GSI2SK"`
	EntityType string                `dynamodbav:"EntityType"`
	NodeID     string                `dynamodbav:"NodeID"`
	MindmapID  string                `dynamodbav:"MindmapID"`
	UserUID    string                `dynamodbav:"UserUID"`
	Title      string                `dynamodbav:"Title"`
	Content    string                `dynamodbav:"Content"`
	Position   valueobjects.Position `dynamodbav:"Position"`
	Parents    []string              `dynamodbav:"Parents"`
	Children   []string              `dynamodbav:"Children"`
	Depth      int                   `dynamodbav:"Depth"`
	CreatedAt  string                `dynamodbav:"CreatedAt"`
	UpdatedAt  string                `dynamodbav:"UpdatedAt"`
	Metadata   entities.NodeMetadata `dynamodbav:"Metadata"`
}

func newNodeItem(n *entities.Node) nodeItem {
	return nodeItem{
		PK:         nodePK(n.MindmapID),
		SK:         nodeSK(n.ID),
		GSI2PK:     userPK(n.UserUID),
		GSI2SK:     nodeSK(n.ID),
		EntityType: entityTypeNode,
		NodeID:     n.ID,
		MindmapID:  n.MindmapID,
		UserUID:    n.UserUID,
		Title:      n.Title,
		Content:    n.Content,
		Position:   n.Position,
		Parents:    n.Parents,
		Children:   n.Children,
		Depth:      n.Depth,
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  n.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Metadata:   n.Metadata,
	}
}

func (i nodeItem) toEntity() (*entities.Node, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt node record").WithCause(err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt node record").WithCause(err)
	}
	parents := i.Parents
	if parents == nil {
		parents = []string{}
	}
	children := i.Children
	if children == nil {
		children = []string{}
	}
	return &entities.Node{
		ID:        i.NodeID,
		MindmapID: i.MindmapID,
		UserUID:   i.UserUID,
		Title:     i.Title,
		Content:   i.Content,
		Position:  i.Position,
		Parents:   parents,
		Children:  children,
		Depth:     i.Depth,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Metadata:  i.Metadata,
	}, nil
}

// nodeKey resolves the table key from the composite node identifier.
func nodeKey(id string) (map[string]types.AttributeValue, error) {
	nid, err := valueobjects.NewNodeIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewNotFoundError("Node")
	}
	mindmapID := nid.MindMapID()
	if mindmapID == "" {
		return nil, pkgerrors.NewNotFoundError("Node")
	}
	return attributevalue.MarshalMap(map[string]string{
		"PK": nodePK(mindmapID),
		"SK": nodeSK(id),
	})
}

func (r *NodeRepository) Create(ctx context.Context, node *entities.Node) error {
	av, err := attributevalue.MarshalMap(newNodeItem(node))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal node").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("Node already exists")
		}
		return pkgerrors.NewDatabaseError("create node", err)
	}
	return nil
}

func (r *NodeRepository) GetByID(ctx context.Context, id string) (*entities.Node, error) {
	key, err := nodeKey(id)
	if err != nil {
		return nil, err
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get node", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("Node")
	}

	var item nodeItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal node").WithCause(err)
	}
	return item.toEntity()
}

func (r *NodeRepository) ListByMindMap(ctx context.Context, mindmapID string) ([]*entities.Node, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(nodePK(mindmapID))).
			And(expression.Key("SK").BeginsWith(nodePrefix))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build node query").WithCause(err)
	}

	out := []*entities.Node{}
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list nodes", err)
		}
		for _, raw := range result.Items {
			var item nodeItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal node").WithCause(err)
			}
			node, err := item.toEntity()
			if err != nil {
				return nil, err
			}
			out = append(out, node)
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NodeRepository) UpdateConnections(ctx context.Context, id string, parents, children []string) error {
	if parents == nil && children == nil {
		return nil
	}
	upd := expression.Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))
	if parents != nil {
		upd = upd.Set(expression.Name("Parents"), expression.Value(parents))
	}
	if children != nil {
		upd = upd.Set(expression.Name("Children"), expression.Value(children))
	}
	return r.update(ctx, id, upd, "update node connections")
}

func (r *NodeRepository) UpdateFields(ctx context.Context, id string, update ports.NodeFieldUpdate) error {
	upd := expression.Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))
	if update.Title != nil {
		upd = upd.Set(expression.Name("Title"), expression.Value(*update.Title))
	}
	if update.Content != nil {
		upd = upd.Set(expression.Name("Content"), expression.Value(*update.Content))
	}
	if update.Position != nil {
		upd = upd.Set(expression.Name("Position"), expression.Value(*update.Position))
	}
	if update.Parents != nil {
		upd = upd.Set(expression.Name("Parents"), expression.Value(update.Parents))
	}
	if update.Children != nil {
		upd = upd.Set(expression.Name("Children"), expression.Value(update.Children))
	}
	return r.update(ctx, id, upd, "update node")
}

func (r *NodeRepository) update(ctx context.Context, id string, upd expression.UpdateBuilder, operation string) error {
	key, err := nodeKey(id)
	if err != nil {
		return err
	}

	expr, err := expression.NewBuilder().
		WithUpdate(upd).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build node update").WithCause(err)
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
			return pkgerrors.NewNotFoundError("Node")
		}
		return pkgerrors.NewDatabaseError(operation, err)
	}
	return nil
}

func (r *NodeRepository) Delete(ctx context.Context, id string) error {
	key, err := nodeKey(id)
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("Node")
		}
		return pkgerrors.NewDatabaseError("delete node", err)
	}
	return nil
}

func (r *NodeRepository) DeleteByMindMap(ctx context.Context, mindmapID string) (int, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(nodePK(mindmapID))).
			And(expression.Key("SK").BeginsWith(nodePrefix))).
		WithProjection(expression.NamesList(expression.Name("PK"), expression.Name("SK"))).
		Build()
	if err != nil {
		return 0, pkgerrors.NewInternalError("failed to build node scan").WithCause(err)
	}

	keys := []map[string]types.AttributeValue{}
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, pkgerrors.NewDatabaseError("list nodes for delete", err)
		}
		keys = append(keys, result.Items...)
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	// BatchWriteItem caps at 25 requests per call.
	const batchSize = 25
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		requests := make([]types.WriteRequest, 0, end-i)
		for _, key := range keys[i:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		pending := map[string][]types.WriteRequest{r.tableName: requests}
		for len(pending) > 0 {
			result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return 0, pkgerrors.NewDatabaseError("batch delete nodes", err)
			}
			if len(result.UnprocessedItems) == 0 {
				break
			}
			pending = result.UnprocessedItems
		}
	}

	r.logger.Debug("node collection deleted",
		zap.String("mindmap_id", mindmapID),
		zap.Int("count", len(keys)))
	return len(keys), nil
}

func (r *NodeRepository) CountByUser(ctx context.Context, userUID string) (int, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI2PK").Equal(expression.Value(userPK(userUID))).
			And(expression.Key("GSI2SK").BeginsWith(nodePrefix))).
		Build()
	if err != nil {
		return 0, pkgerrors.NewInternalError("failed to build node count").WithCause(err)
	}

	count := 0
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(r.ownerIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, pkgerrors.NewDatabaseError("count nodes", err)
		}
		count += int(result.Count)
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return count, nil
}
