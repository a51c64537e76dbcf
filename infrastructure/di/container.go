package di

import (
	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/application/services"
	"ideavine-backend/infrastructure/config"
	"ideavine-backend/interfaces/http/rest"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	UserRepo       ports.UserRepository
	MindMapRepo    ports.MindMapRepository
	NodeRepo       ports.NodeRepository
	EventPublisher ports.EventPublisher
	AIClient       ports.AIClient
	UserService    *services.UserService
	MindMapService *services.MindMapService
	NodeService    *services.NodeService
	IdeaService    *services.IdeaService
	Router         *rest.Router
}
