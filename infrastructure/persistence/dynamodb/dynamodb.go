// Package dynamodb implements the repository ports on a single
// DynamoDB table.
//
// Layout: users live under PK USER#<id> / SK METADATA with an email
// GSI; mindmaps under PK USER#<owner> / SK MINDMAP#<id>; nodes under
// PK MINDMAP#<id> / SK NODE#<id> with an owner GSI for user-wide
// counts. The composite identifiers make point reads cheap: a mindmap
// ID names its owner and a node ID names its mindmap, so GetByID never
// needs an index.
package dynamodb

import "fmt"

const (
	skMetadata    = "METADATA"
	mindmapPrefix = "MINDMAP#"
	nodePrefix    = "NODE#"

	entityTypeUser    = "USER"
	entityTypeMindMap = "MINDMAP"
	entityTypeNode    = "NODE"
)

func userPK(userID string) string       { return fmt.Sprintf("USER#%s", userID) }
func emailGSIPK(email string) string    { return fmt.Sprintf("EMAIL#%s", email) }
func mindmapSK(mindmapID string) string { return mindmapPrefix + mindmapID }
func nodePK(mindmapID string) string    { return mindmapPrefix + mindmapID }
func nodeSK(nodeID string) string       { return nodePrefix + nodeID }
