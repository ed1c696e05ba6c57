package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nico916/football-comparator/pkg/engine"
	"github.com/nico916/football-comparator/pkg/neighbors"
	"github.com/nico916/football-comparator/pkg/roster"
)

type Service struct {
	engine *engine.Engine
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

// snapshot returns the active snapshot or an error the client can read.
func (s *Service) snapshot() (*engine.Snapshot, error) {
	snap := s.engine.Snapshot()
	if snap == nil {
		return nil, engine.ErrNotLoaded
	}
	return snap, nil
}

// --- Tool Handlers ---

func (s *Service) FindSimilar(ctx context.Context, req *mcp.CallToolRequest, args FindSimilarArgs) (*mcp.CallToolResult, FindSimilarResult, error) {
	if args.Player == "" {
		return nil, FindSimilarResult{}, errors.New("player is required")
	}
	if args.K < 0 {
		return nil, FindSimilarResult{}, errors.New("k must be a non-negative integer")
	}

	report, err := s.engine.Neighbors(args.Player, args.K)
	if err != nil {
		return nil, FindSimilarResult{}, err
	}

	res := FindSimilarResult{
		Player:       report.Player,
		Position:     report.Position,
		Found:        report.Found,
		Global:       report.Global,
		SamePosition: report.SamePosition,
	}
	if !report.Found {
		res.Summary = fmt.Sprintf("No player named '%s' in the dataset.", args.Player)
		return nil, res, nil
	}

	res.Resource = PlayerURI(report.Player)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Players closest to %s (%s) on the PC1/PC2 map:\n", report.Player, report.Position)
	writeMatches(&sb, report.Global)
	fmt.Fprintf(&sb, "Closest among %s:\n", report.Position)
	writeMatches(&sb, report.SamePosition)
	res.Summary = sb.String()
	return nil, res, nil
}

func writeMatches(sb *strings.Builder, matches []neighbors.Match) {
	if len(matches) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for i, m := range matches {
		fmt.Fprintf(sb, "  %d. %s [%s] distance %.3f\n", i+1, m.Player, m.Position, m.Distance)
	}
}

func (s *Service) DescribeComponents(ctx context.Context, req *mcp.CallToolRequest, args DescribeComponentsArgs) (*mcp.CallToolResult, DescribeComponentsResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, DescribeComponentsResult{}, err
	}

	var sb strings.Builder
	for _, v := range snap.Variance {
		fmt.Fprintf(&sb, "%s explains %.2f%% of the variance (eigenvalue %.4f)\n", v.Component, v.Percent, v.Eigenvalue)
	}
	sb.WriteString("Attribute loadings (PC1, PC2):\n")
	for _, l := range snap.Loadings {
		fmt.Fprintf(&sb, "  %s: %.3f, %.3f\n", l.Attribute, l.PC1, l.PC2)
	}

	return nil, DescribeComponentsResult{
		Variance: snap.Variance,
		Loadings: snap.Loadings,
		Summary:  sb.String(),
	}, nil
}

func (s *Service) ListPlayers(ctx context.Context, req *mcp.CallToolRequest, args ListPlayersArgs) (*mcp.CallToolResult, ListPlayersResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, ListPlayersResult{}, err
	}

	names := snap.Names()
	if args.Position != "" {
		pos := roster.NormalizePosition(strings.ToUpper(args.Position))
		filtered := names[:0]
		for _, name := range names {
			for _, p := range snap.Lookup(name) {
				if p.Position == pos {
					filtered = append(filtered, name)
					break
				}
			}
		}
		names = filtered
	}
	return nil, ListPlayersResult{Players: names, Count: len(names)}, nil
}

func (s *Service) PlacePlayer(ctx context.Context, req *mcp.CallToolRequest, args PlacePlayerArgs) (*mcp.CallToolResult, PlacePlayerResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, PlacePlayerResult{}, err
	}
	placed, err := snap.PlaceNamed(args.Attributes)
	if err != nil {
		return nil, PlacePlayerResult{}, err
	}
	return nil, PlacePlayerResult{PC1: placed.PC1, PC2: placed.PC2, Archetype: placed.Archetype}, nil
}
