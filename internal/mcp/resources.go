package mcp

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

// PlayerTemplate addresses the fitted rows of one player.
const PlayerTemplate = "football://players/{name}"

var playerTemplate = uritemplate.MustNew(PlayerTemplate)

// playerURIPrefix is PlayerTemplate up to its only expression.
const playerURIPrefix = "football://players/"

// PlayerURI returns the PlayerTemplate resource URI of name. The name is
// percent-encoded as UTF-8, which is what playerName decodes.
func PlayerURI(name string) string {
	return playerURIPrefix + url.PathEscape(name)
}

// playerName extracts the player name from a resource URI.
func playerName(uri string) (string, bool) {
	vals := playerTemplate.Match(uri)
	if vals == nil {
		return "", false
	}
	name := vals.Get("name").String()
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name, name != ""
}

// playerDocument is the JSON body of a player resource.
type playerDocument struct {
	Player  string `json:"player"`
	Key     string `json:"dataset_key"`
	Entries any    `json:"entries"`
}

// ReadPlayer serves PlayerTemplate resources.
func (s *Service) ReadPlayer(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	name, ok := playerName(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	entries := snap.Lookup(name)
	if len(entries) == 0 {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	body, err := json.MarshalIndent(playerDocument{Player: name, Key: snap.Key, Entries: entries}, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
