// Package mcp exposes the comparator to MCP clients (LLM agents) over stdio.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nico916/football-comparator/pkg/engine"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

func NewMCPServer(eng *engine.Engine) *mcp.Server {
	service := NewService(eng)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "Football Comparator",
		Version: Version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_similar_players",
		Description: "Find the players whose PC1/PC2 profile is closest to a given player, across the whole league and within the same position.",
	}, service.FindSimilar)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "describe_components",
		Description: "Explain the two principal axes: explained variance per component and how each attribute loads on PC1 and PC2.",
	}, service.DescribeComponents)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_players",
		Description: "List player names in the dataset, optionally restricted to one position (GK, DF, MF, FW).",
	}, service.ListPlayers)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "place_player",
		Description: "Project a hypothetical stat line onto the map and return its coordinates and archetype.",
	}, service.PlacePlayer)

	s.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: PlayerTemplate,
		Name:        "player",
		Description: "Season rows and PC1/PC2 coordinates of one player.",
		MIMEType:    "application/json",
	}, service.ReadPlayer)

	return s
}
