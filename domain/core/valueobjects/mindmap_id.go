package valueobjects

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// mindmapIDSeparator joins the owner token to the creation timestamp.
const mindmapIDSeparator = "_mindmap-"

// MindMapID is a value object for the composite mindmap identifier,
// formatted as <owner-uuid>_mindmap-<creation-millis>.
type MindMapID struct {
	value string
}

// NewMindMapID derives a mindmap identifier from its owner and a
// creation timestamp in milliseconds.
func NewMindMapID(ownerID string, timestampMillis int64) MindMapID {
	return MindMapID{value: fmt.Sprintf("%s%s%d", ownerID, mindmapIDSeparator, timestampMillis)}
}

// NewMindMapIDFromString accepts an existing identifier, validating its shape.
func NewMindMapIDFromString(id string) (MindMapID, error) {
	if id == "" {
		return MindMapID{}, errors.New("mindmap ID cannot be empty")
	}
	if !ValidateMindMapID(id) {
		return MindMapID{}, errors.New("mindmap ID must have the form <uuid>_mindmap-<timestamp>")
	}
	return MindMapID{value: id}, nil
}

// ValidateMindMapID reports whether id has the form <uuid>_mindmap-<timestamp>.
func ValidateMindMapID(id string) bool {
	parts := strings.Split(id, mindmapIDSeparator)
	if len(parts) != 2 {
		return false
	}
	if _, err := uuid.Parse(parts[0]); err != nil {
		return false
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return false
	}
	return true
}

// OwnerID returns the owner token portion of the identifier.
func (id MindMapID) OwnerID() string {
	if i := strings.Index(id.value, mindmapIDSeparator); i >= 0 {
		return id.value[:i]
	}
	return ""
}

// String returns the string representation of the MindMapID
func (id MindMapID) String() string {
	return id.value
}

// Equals checks if two MindMapIDs are equal
func (id MindMapID) Equals(other MindMapID) bool {
	return id.value == other.value
}

// IsZero checks if the MindMapID is the zero value
func (id MindMapID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id MindMapID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *MindMapID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("MindMapID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
