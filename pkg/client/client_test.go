package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nico916/football-comparator/internal/config"
	"github.com/nico916/football-comparator/internal/server"
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

const testToken = "client-test-token"

// startServer runs a real comparator server on an httptest listener.
func startServer(t *testing.T) string {
	t.Helper()
	return startServerWith(t, leagueCSV)
}

func startServerWith(t *testing.T, dataset string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.csv")
	if err := os.WriteFile(path, []byte(dataset), 0644); err != nil {
		t.Fatal(err)
	}
	eng, err := engine.Open(engine.DefaultOptions(path))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })

	cfg := config.DefaultConfig().Server
	cfg.AuthToken = testToken
	srv, err := server.NewServer(eng, cfg)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestClientAgainstServer(t *testing.T) {
	c := New(startServer(t)+"/", testToken)

	t.Run("A - Dataset views", func(t *testing.T) {
		players, err := c.Players()
		if err != nil {
			t.Fatalf("Players failed: %v", err)
		}
		if len(players) != 6 || players[0] != "Achraf Hakimi" {
			t.Errorf("unexpected players: %v", players)
		}

		rows, err := c.Player("Ousmane Dembélé")
		if err != nil {
			t.Fatalf("Player failed: %v", err)
		}
		if len(rows) != 1 || rows[0].Position != "FW" || rows[0].RawPosition != "FWMF" {
			t.Errorf("unexpected rows: %+v", rows)
		}

		projection, err := c.Projection()
		if err != nil {
			t.Fatalf("Projection failed: %v", err)
		}
		if len(projection.Players) != 6 || projection.Extent.MinPC1 > projection.Extent.MaxPC1 {
			t.Errorf("unexpected projection: %+v", projection)
		}
		if projection.FittedAt.IsZero() {
			t.Errorf("projection should carry the fit time")
		}

		variance, err := c.Variance()
		if err != nil {
			t.Fatalf("Variance failed: %v", err)
		}
		if len(variance) != 4 || variance[0].Component != "PC1" {
			t.Errorf("unexpected variance: %+v", variance)
		}

		loadings, err := c.Loadings()
		if err != nil {
			t.Fatalf("Loadings failed: %v", err)
		}
		if len(loadings) != 4 || loadings[0].Attribute != "Goals" {
			t.Errorf("unexpected loadings: %+v", loadings)
		}
	})

	t.Run("B - Queries", func(t *testing.T) {
		report, err := c.Neighbors("Vitinha", 2)
		if err != nil {
			t.Fatalf("Neighbors failed: %v", err)
		}
		if !report.Found || len(report.Global) != 2 || len(report.SamePosition) != 1 {
			t.Errorf("unexpected report: %+v", report)
		}
		if report.SamePosition[0].Player != "Warren Zaïre-Emery" {
			t.Errorf("same-position neighbor: got %s", report.SamePosition[0].Player)
		}

		missing, err := c.Neighbors("Lionel Messi", 0)
		if err != nil {
			t.Fatalf("unknown player should not be an error: %v", err)
		}
		if missing.Found || len(missing.Global) != 0 {
			t.Errorf("unexpected report for unknown player: %+v", missing)
		}

		placement, err := c.Place(map[string]float64{"Goals": 0.1, "Shots": 0.4, "KeyPasses": 0.3, "Tackles": 1.2})
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		rows, _ := c.Player("Marquinhos")
		if placement.Archetype != rows[0].Archetype {
			t.Errorf("placement archetype %s, fitted %s", placement.Archetype, rows[0].Archetype)
		}

		_, err = c.Place(map[string]float64{"Goals": 1})
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 APIError, got %v", err)
		}
	})

	t.Run("C - Reload", func(t *testing.T) {
		task, err := c.Reload()
		if err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		if err := task.Wait(10*time.Millisecond, 5*time.Second); err != nil {
			t.Fatalf("reload task: %v", err)
		}
		if task.Result == "" {
			t.Errorf("completed reload should report the dataset key")
		}

		if _, err := c.GetTaskStatus("missing"); err == nil {
			t.Errorf("unknown task should fail")
		}
	})
}

func TestClientRejectedWithoutToken(t *testing.T) {
	c := New(startServer(t), "")

	_, err := c.Players()
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestClientPlayerNameWithSlash(t *testing.T) {
	c := New(startServerWith(t, leagueCSV+"Salih Özcan/Jr;MF;0.1;0.9;1.0;1.8\n"), testToken)

	rows, err := c.Player("Salih Özcan/Jr")
	if err != nil {
		t.Fatalf("Player failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Salih Özcan/Jr" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}
