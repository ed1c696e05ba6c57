package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nico916/football-comparator/pkg/engine"
)

const leagueCSV = `Player;Pos;Goals;Shots;KeyPasses;Tackles
Kylian Mbappé;FW;0.9;4.2;1.8;0.3
Ousmane Dembélé;FWMF;0.5;3.0;2.4;0.6
Vitinha;MFFW;0.1;1.1;2.1;1.9
Warren Zaïre-Emery;DFMF;0.1;0.8;1.2;2.5
Marquinhos;DF;0.1;0.4;0.3;1.2
Achraf Hakimi;DF;0.2;1.2;1.6;2.0
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.csv")
	if err := os.WriteFile(path, []byte(leagueCSV), 0644); err != nil {
		t.Fatal(err)
	}
	eng, err := engine.Open(engine.DefaultOptions(path))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })
	return NewService(eng)
}

func TestFindSimilar(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, res, err := s.FindSimilar(ctx, nil, FindSimilarArgs{Player: "Marquinhos", K: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Position != "DF" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Global) != 3 || len(res.SamePosition) != 1 {
		t.Errorf("expected 3 global and 1 same-position match, got %d and %d", len(res.Global), len(res.SamePosition))
	}
	if res.Resource != "football://players/Marquinhos" {
		t.Errorf("unexpected resource uri %q", res.Resource)
	}
	if !strings.Contains(res.Summary, "Achraf Hakimi") {
		t.Errorf("summary should name the defender neighbor:\n%s", res.Summary)
	}

	_, missing, err := s.FindSimilar(ctx, nil, FindSimilarArgs{Player: "Lionel Messi"})
	if err != nil {
		t.Fatal(err)
	}
	if missing.Found || len(missing.Global) != 0 || missing.Global == nil {
		t.Errorf("unknown player should give empty non-nil lists: %+v", missing)
	}

	if _, _, err := s.FindSimilar(ctx, nil, FindSimilarArgs{}); err == nil {
		t.Errorf("empty player should be rejected")
	}
}

func TestDescribeComponents(t *testing.T) {
	s := newTestService(t)

	_, res, err := s.DescribeComponents(context.Background(), nil, DescribeComponentsArgs{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Variance) != 4 || len(res.Loadings) != 4 {
		t.Fatalf("unexpected tables: %+v", res)
	}
	if !strings.HasPrefix(res.Summary, "PC1 explains") {
		t.Errorf("unexpected summary:\n%s", res.Summary)
	}
}

func TestListPlayersByPosition(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, all, err := s.ListPlayers(ctx, nil, ListPlayersArgs{})
	if err != nil {
		t.Fatal(err)
	}
	if all.Count != 6 {
		t.Errorf("expected 6 players, got %d", all.Count)
	}

	_, mids, err := s.ListPlayers(ctx, nil, ListPlayersArgs{Position: "mf"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Vitinha", "Warren Zaïre-Emery"}
	if mids.Count != len(want) {
		t.Fatalf("midfielders: got %v", mids.Players)
	}
	for i, name := range want {
		if mids.Players[i] != name {
			t.Errorf("midfielder %d: expected %s, got %s", i, name, mids.Players[i])
		}
	}
}

func TestPlacePlayer(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	args := PlacePlayerArgs{Attributes: map[string]float64{"Goals": 0.9, "Shots": 4.2, "KeyPasses": 1.8, "Tackles": 0.3}}
	_, res, err := s.PlacePlayer(ctx, nil, args)
	if err != nil {
		t.Fatal(err)
	}
	mbappe := s.engine.Snapshot().Lookup("Kylian Mbappé")[0]
	if d := res.PC1 - mbappe.PC1; d > 1e-9 || d < -1e-9 {
		t.Errorf("PC1 mismatch: %v vs %v", res.PC1, mbappe.PC1)
	}
	if res.Archetype != mbappe.Archetype {
		t.Errorf("archetype mismatch: %s vs %s", res.Archetype, mbappe.Archetype)
	}

	if _, _, err := s.PlacePlayer(ctx, nil, PlacePlayerArgs{Attributes: map[string]float64{"Goals": 1}}); err == nil {
		t.Errorf("missing attributes should be rejected")
	}
}

func TestPlayerResource(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if uri := PlayerURI("Achraf Hakimi"); uri != "football://players/Achraf%20Hakimi" {
		t.Errorf("unexpected uri %q", uri)
	}

	res, err := s.ReadPlayer(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "football://players/Marquinhos"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Contents) != 1 || res.Contents[0].MIMEType != "application/json" {
		t.Fatalf("unexpected contents: %+v", res.Contents)
	}
	var doc struct {
		Player  string `json:"player"`
		Entries []struct {
			Position string `json:"position"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Player != "Marquinhos" || len(doc.Entries) != 1 || doc.Entries[0].Position != "DF" {
		t.Errorf("unexpected document: %+v", doc)
	}

	if _, err := s.ReadPlayer(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "football://players/Nobody"}}); err == nil {
		t.Errorf("unknown player should not resolve")
	}
	if _, err := s.ReadPlayer(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "football://clubs/psg"}}); err == nil {
		t.Errorf("foreign uri should not resolve")
	}
}

func TestPlayerResourceAccentedNames(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Kylian Mbappé", "Warren Zaïre-Emery", "Ousmane Dembélé"} {
		uri := PlayerURI(name)
		if strings.Contains(uri, " ") {
			t.Errorf("%s: uri %q is not escaped", name, uri)
		}

		res, err := s.ReadPlayer(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
		if err != nil {
			t.Fatalf("%s: reading %q: %v", name, uri, err)
		}
		var doc struct {
			Player string `json:"player"`
		}
		if err := json.Unmarshal([]byte(res.Contents[0].Text), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Player != name {
			t.Errorf("round trip: expected %q, got %q", name, doc.Player)
		}
	}

	if uri := PlayerURI("Kylian Mbappé"); uri != "football://players/Kylian%20Mbapp%C3%A9" {
		t.Errorf("expected UTF-8 percent-encoding, got %q", uri)
	}
}
