package app

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/atlaslearn/atlas-backend/internal/platform/neo4jdb"
	"github.com/atlaslearn/atlas-backend/internal/roadmap"
)

// graphStoreAdapter bridges the pipeline's edge type to the neo4j client.
type graphStoreAdapter struct {
	client *neo4jdb.Client
}

func (a graphStoreAdapter) SavePrerequisiteGraph(ctx context.Context, sessionID, subject string, nodes []string, edges []roadmap.GraphEdge) error {
	converted := make([]neo4jdb.PrereqEdge, len(edges))
	for i, e := range edges {
		converted[i] = neo4jdb.PrereqEdge{From: e.From, To: e.To}
	}
	return a.client.SavePrerequisiteGraph(ctx, sessionID, subject, nodes, converted)
}

func driverOrNil(client *neo4jdb.Client) neo4j.DriverWithContext {
	if client == nil {
		return nil
	}
	return client.Driver
}
