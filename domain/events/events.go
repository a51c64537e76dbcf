// Package events defines the domain events emitted after successful
// mutations. Events are published best-effort onto the bus; a publish
// failure never rolls back the write that produced it.
package events

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   time.Now().UTC(),
		Version:     1,
	}
}

// UserCreated is raised when a new user record is written.
type UserCreated struct {
	BaseEvent
	Email string `json:"email"`
}

func NewUserCreated(userID, email string) UserCreated {
	return UserCreated{BaseEvent: newBase(userID, "user.created"), Email: email}
}

// UserDeactivated is raised when a user is soft-deleted.
type UserDeactivated struct {
	BaseEvent
}

func NewUserDeactivated(userID string) UserDeactivated {
	return UserDeactivated{BaseEvent: newBase(userID, "user.deactivated")}
}

// MindMapCreated is raised when a mindmap is created, including any
// initial nodes written in the same operation.
type MindMapCreated struct {
	BaseEvent
	UserUID      string `json:"user_uid"`
	InitialNodes int    `json:"initial_nodes"`
}

func NewMindMapCreated(mindmapID, userUID string, initialNodes int) MindMapCreated {
	return MindMapCreated{
		BaseEvent:    newBase(mindmapID, "mindmap.created"),
		UserUID:      userUID,
		InitialNodes: initialNodes,
	}
}

// MindMapDeleted is raised after the soft-delete plus node cascade
// completes. DeletedNodes is the count of hard-deleted node records.
type MindMapDeleted struct {
	BaseEvent
	UserUID      string `json:"user_uid"`
	DeletedNodes int    `json:"deleted_nodes"`
}

func NewMindMapDeleted(mindmapID, userUID string, deletedNodes int) MindMapDeleted {
	return MindMapDeleted{
		BaseEvent:    newBase(mindmapID, "mindmap.deleted"),
		UserUID:      userUID,
		DeletedNodes: deletedNodes,
	}
}

// NodeCreated is raised when a node is added to a mindmap.
type NodeCreated struct {
	BaseEvent
	MindmapID string `json:"mindmap_id"`
	UserUID   string `json:"user_uid"`
	Source    string `json:"source"`
}

func NewNodeCreated(nodeID, mindmapID, userUID, source string) NodeCreated {
	return NodeCreated{
		BaseEvent: newBase(nodeID, "node.created"),
		MindmapID: mindmapID,
		UserUID:   userUID,
		Source:    source,
	}
}

// NodeDeleted is raised when a single node is removed from a mindmap.
type NodeDeleted struct {
	BaseEvent
	MindmapID string `json:"mindmap_id"`
}

func NewNodeDeleted(nodeID, mindmapID string) NodeDeleted {
	return NodeDeleted{BaseEvent: newBase(nodeID, "node.deleted"), MindmapID: mindmapID}
}
