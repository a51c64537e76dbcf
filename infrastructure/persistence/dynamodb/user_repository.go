package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ideavine-backend/domain/core/entities"
	pkgerrors "ideavine-backend/pkg/errors"
	"ideavine-backend/pkg/utils"
)

// UserRepository implements ports.UserRepository on DynamoDB.
type UserRepository struct {
	client     *dynamodb.Client
	tableName  string
	emailIndex string
	logger     *zap.Logger
}

// NewUserRepository creates a DynamoDB-backed user repository.
func NewUserRepository(client *dynamodb.Client, tableName, emailIndex string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		client:     client,
		tableName:  tableName,
		emailIndex: emailIndex,
		logger:     logger,
	}
}

type userItem struct {
	PK         string                `dynamodbav:"PK"`
	SK         string                `dynamodbav:"SK"`
	GSI1PK     string                `dynamodbav:"GSI1PK"`
	GSI1SK     string                `dynamodbav:"GSI1SK"`
	EntityType string                `dynamodbav:"EntityType"`
	UserID     string                `dynamodbav:"UserID"`
	Email      string                `dynamodbav:"Email"`
	Name       string                `dynamodbav:"Name"`
	CreatedAt  string                `dynamodbav:"CreatedAt"`
	UpdatedAt  string                `dynamodbav:"UpdatedAt"`
	LastLogin  string                `dynamodbav:"LastLogin"`
	IsActive   bool                  `dynamodbav:"IsActive"`
	Settings   entities.UserSettings `dynamodbav:"Settings"`
	Metadata   entities.UserMetadata `dynamodbav:"Metadata"`
}

func newUserItem(u *entities.User) userItem {
	return userItem{
		PK:         userPK(u.ID),
		SK:         skMetadata,
		GSI1PK:     emailGSIPK(u.Email),
		GSI1SK:     u.CreatedAt.UTC().Format(time.RFC3339Nano),
		EntityType: entityTypeUser,
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		CreatedAt:  u.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  u.UpdatedAt.UTC().Format(time.RFC3339Nano),
		LastLogin:  u.LastLogin.UTC().Format(time.RFC3339Nano),
		IsActive:   u.IsActive,
		Settings:   u.Settings,
		Metadata:   u.Metadata,
	}
}

func (i userItem) toEntity() (*entities.User, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt user record").WithCause(err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt user record").WithCause(err)
	}
	lastLogin, err := utils.ParseRFC3339(i.LastLogin)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt user record").WithCause(err)
	}
	return &entities.User{
		ID:        i.UserID,
		Email:     i.Email,
		Name:      i.Name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		LastLogin: lastLogin,
		IsActive:  i.IsActive,
		Settings:  i.Settings,
		Metadata:  i.Metadata,
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	av, err := attributevalue.MarshalMap(newUserItem(user))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal user").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("User already exists")
		}
		return pkgerrors.NewDatabaseError("create user", err)
	}

	r.logger.Debug("user stored", zap.String("user_uid", user.ID))
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": userPK(id), "SK": skMetadata})
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal user key").WithCause(err)
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("User")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal user").WithCause(err)
	}
	if !item.IsActive {
		return nil, pkgerrors.NewNotFoundError("User")
	}
	return item.toEntity()
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getByEmail(ctx, email, true)
}

func (r *UserRepository) GetByEmailAny(ctx context.Context, email string) (*entities.User, error) {
	return r.getByEmail(ctx, email, false)
}

func (r *UserRepository) getByEmail(ctx context.Context, email string, activeOnly bool) (*entities.User, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(emailGSIPK(email))))
	if activeOnly {
		builder = builder.WithFilter(expression.Name("IsActive").Equal(expression.Value(true)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build email query").WithCause(err)
	}

	// Newest record first; the GSI sort key is the creation timestamp.
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.emailIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query user by email", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("User")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal user").WithCause(err)
	}
	return item.toEntity()
}

func (r *UserRepository) UpdateStats(ctx context.Context, id string, totalMindmaps, totalNodes int) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.
			Set(expression.Name("Metadata.TotalMindmaps"), expression.Value(totalMindmaps)).
			Set(expression.Name("Metadata.TotalNodes"), expression.Value(totalNodes)).
			Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build stats update").WithCause(err)
	}
	return r.update(ctx, id, expr, "update user stats")
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.
			Set(expression.Name("IsActive"), expression.Value(false)).
			Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))).
		WithCondition(expression.AttributeExists(expression.Name("PK")).
			And(expression.Name("IsActive").Equal(expression.Value(true)))).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build soft delete").WithCause(err)
	}
	return r.update(ctx, id, expr, "soft delete user")
}

func (r *UserRepository) update(ctx context.Context, id string, expr expression.Expression, operation string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": userPK(id), "SK": skMetadata})
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal user key").WithCause(err)
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
			return pkgerrors.NewNotFoundError("User")
		}
		return pkgerrors.NewDatabaseError(operation, err)
	}
	return nil
}
