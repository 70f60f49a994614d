package neo4jdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// PrereqEdge is one directed prerequisite relation between two concepts.
type PrereqEdge struct {
	From string
	To   string
}

// SavePrerequisiteGraph mirrors a roadmap session's concept graph into neo4j
// so prerequisite chains can be queried across sessions. Best effort: the
// roadmap build does not depend on this write.
func (c *Client) SavePrerequisiteGraph(ctx context.Context, sessionID string, subject string, nodes []string, edges []PrereqEdge) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("neo4jdb: session id required")
	}

	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, name := range nodes {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			_, err := tx.Run(ctx, `
				MERGE (n:Concept {name: $name, subject: $subject})
				SET n.last_session_id = $session_id
			`, map[string]any{"name": name, "subject": subject, "session_id": sessionID})
			if err != nil {
				return nil, err
			}
		}
		for _, e := range edges {
			from := strings.TrimSpace(e.From)
			to := strings.TrimSpace(e.To)
			if from == "" || to == "" {
				continue
			}
			_, err := tx.Run(ctx, `
				MATCH (a:Concept {name: $from, subject: $subject})
				MATCH (b:Concept {name: $to, subject: $subject})
				MERGE (a)-[r:PREREQUISITE_OF]->(b)
				SET r.last_session_id = $session_id
			`, map[string]any{"from": from, "to": to, "subject": subject, "session_id": sessionID})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4jdb: save prerequisite graph: %w", err)
	}
	return nil
}
