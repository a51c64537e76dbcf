package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "ideavine-backend/pkg/errors"
)

// UserSettings holds per-user presentation preferences.
type UserSettings struct {
	DefaultMindmapLayout string `json:"default_mindmap_layout" dynamodbav:"DefaultMindmapLayout"`
	Theme                string `json:"theme" dynamodbav:"Theme"`
	NotificationsEnabled bool   `json:"notifications_enabled" dynamodbav:"NotificationsEnabled"`
}

// UserMetadata caches aggregate counts across the user's mindmaps and
// nodes. The counts are always rederivable from the primary records;
// they are refreshed by the stats cascade, never incremented in place.
type UserMetadata struct {
	TotalMindmaps int `json:"total_mindmaps" dynamodbav:"TotalMindmaps"`
	TotalNodes    int `json:"total_nodes" dynamodbav:"TotalNodes"`
}

// User is an account record. Users are soft-deleted only: IsActive flips
// to false and the record stays behind for forensics.
type User struct {
	ID        string       `json:"_id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	LastLogin time.Time    `json:"last_login"`
	IsActive  bool         `json:"is_active"`
	Settings  UserSettings `json:"settings"`
	Metadata  UserMetadata `json:"metadata"`
}

// NewUser creates a user with default settings. When name is empty it is
// derived from the local part of the email.
func NewUser(email, name string) (*User, error) {
	if email == "" {
		return nil, pkgerrors.NewMissingFieldError("email")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
		IsActive:  true,
		Settings: UserSettings{
			DefaultMindmapLayout: "tree",
			Theme:                "light",
			NotificationsEnabled: true,
		},
	}, nil
}

// RefreshStats overwrites the cached counters and bumps the update timestamp.
func (u *User) RefreshStats(totalMindmaps, totalNodes int) {
	u.Metadata.TotalMindmaps = totalMindmaps
	u.Metadata.TotalNodes = totalNodes
	u.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the user inactive without removing the record.
func (u *User) SoftDelete() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}
