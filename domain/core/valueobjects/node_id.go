package valueobjects

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// nodeIDSeparator joins the owning mindmap identifier to the creation
// timestamp. The mindmap identifier itself contains underscores, so the
// suffix is always resolved from the last occurrence.
const nodeIDSeparator = "_node-"

// NodeID is a value object for the composite node identifier, formatted
// as <mindmap-id>_node-<creation-millis>.
type NodeID struct {
	value string
}

// NewNodeID derives a node identifier from its owning mindmap and a
// creation timestamp in milliseconds.
func NewNodeID(mindmapID string, timestampMillis int64) NodeID {
	return NodeID{value: fmt.Sprintf("%s%s%d", mindmapID, nodeIDSeparator, timestampMillis)}
}

var (
	issueMu          sync.Mutex
	lastIssuedMillis int64
)

// DeriveNodeID issues an identifier for a server-created node from the
// wall clock. The timestamp is strictly increasing within the process:
// several derivations inside the same millisecond get consecutive
// values, so bulk creation under one mindmap never repeats an ID.
func DeriveNodeID(mindmapID string) NodeID {
	issueMu.Lock()
	ts := time.Now().UnixMilli()
	if ts <= lastIssuedMillis {
		ts = lastIssuedMillis + 1
	}
	lastIssuedMillis = ts
	issueMu.Unlock()
	return NewNodeID(mindmapID, ts)
}

// NewNodeIDFromString accepts a caller-supplied identifier. Explicit IDs
// from the frontend are used verbatim, so only emptiness is rejected here;
// format binding is checked by ValidateNodeID at the repository boundary.
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

// ValidateNodeID reports whether id carries a well-formed _node-<timestamp>
// suffix. When mindmapID is non-empty it additionally requires the prefix to
// equal mindmapID exactly, so node identifiers cannot be reused across
// mindmaps by construction.
func ValidateNodeID(id string, mindmapID string) bool {
	i := strings.LastIndex(id, nodeIDSeparator)
	if i <= 0 {
		return false
	}
	if _, err := strconv.ParseInt(id[i+len(nodeIDSeparator):], 10, 64); err != nil {
		return false
	}
	if mindmapID != "" && id[:i] != mindmapID {
		return false
	}
	return true
}

// MindMapID returns the owning mindmap portion of the identifier, or ""
// when the identifier does not follow the composite format.
func (id NodeID) MindMapID() string {
	if i := strings.LastIndex(id.value, nodeIDSeparator); i > 0 {
		return id.value[:i]
	}
	return ""
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("NodeID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
