// Package di wires the application together with google/wire.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/application/services"
	"ideavine-backend/infrastructure/ai"
	"ideavine-backend/infrastructure/config"
	"ideavine-backend/infrastructure/messaging/eventbridge"
	"ideavine-backend/infrastructure/persistence/dynamodb"
	"ideavine-backend/infrastructure/persistence/memory"
	"ideavine-backend/interfaces/http/rest"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideUserRepository creates a user repository for the configured
// storage backend
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	if cfg.StorageBackend == "memory" {
		return memory.NewUserRepository()
	}
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, cfg.EmailIndexName, logger)
}

// ProvideMindMapRepository creates a mindmap repository
func ProvideMindMapRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MindMapRepository {
	if cfg.StorageBackend == "memory" {
		return memory.NewMindMapRepository()
	}
	return dynamodb.NewMindMapRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideNodeRepository creates a node repository
func ProvideNodeRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.NodeRepository {
	if cfg.StorageBackend == "memory" {
		return memory.NewNodeRepository()
	}
	return dynamodb.NewNodeRepository(client, cfg.DynamoDBTable, cfg.OwnerIndexName, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideAIClient creates the OpenAI collaborator
func ProvideAIClient(cfg *config.Config, logger *zap.Logger) ports.AIClient {
	return ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIChatModel, logger)
}

// ProvideUserService creates the user service
func ProvideUserService(
	users ports.UserRepository,
	mindmaps ports.MindMapRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.UserService {
	return services.NewUserService(users, mindmaps, nodes, publisher, logger)
}

// ProvideMindMapService creates the mindmap service
func ProvideMindMapService(
	users ports.UserRepository,
	mindmaps ports.MindMapRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.MindMapService {
	return services.NewMindMapService(users, mindmaps, nodes, publisher, logger)
}

// ProvideNodeService creates the node service
func ProvideNodeService(
	users ports.UserRepository,
	mindmaps ports.MindMapRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.NodeService {
	return services.NewNodeService(users, mindmaps, nodes, publisher, logger)
}

// ProvideIdeaService creates the idea service
func ProvideIdeaService(client ports.AIClient, logger *zap.Logger) *services.IdeaService {
	return services.NewIdeaService(client, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	users *services.UserService,
	mindmaps *services.MindMapService,
	ideas *services.IdeaService,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(users, mindmaps, ideas, cfg.EnableCORS, logger)
}
