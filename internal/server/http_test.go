package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nico916/football-comparator/internal/config"
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

func newTestServer(t *testing.T, token string) (*httptest.Server, *Server) {
	t.Helper()
	return newTestServerWith(t, leagueCSV, token)
}

func newTestServerWith(t *testing.T, dataset, token string) (*httptest.Server, *Server) {
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
	cfg.AuthToken = token
	s, err := NewServer(eng, cfg)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, s
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthzAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t, "test-secret-token")

	var health map[string]string
	if code := getJSON(t, ts.URL+"/healthz", &health); code != 200 || health["status"] != "ok" {
		t.Errorf("healthz: %d %v", code, health)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("metrics expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	ts, _ := newTestServer(t, "test-secret-token")

	if code := getJSON(t, ts.URL+"/api/players", nil); code != 401 {
		t.Errorf("protected expected 401, got %d", code)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/api/players", nil)
	req.Header.Add("Authorization", "Bearer test-secret-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("protected with token expected 200, got %d", resp.StatusCode)
	}
}

func TestDatasetViews(t *testing.T) {
	ts, s := newTestServer(t, "")

	var players PlayersResponse
	if code := getJSON(t, ts.URL+"/api/players", &players); code != 200 {
		t.Fatalf("players: %d", code)
	}
	if players.Count != 6 || players.Players[0] != "Achraf Hakimi" {
		t.Errorf("players not sorted: %v", players.Players)
	}

	var player PlayerResponse
	if code := getJSON(t, ts.URL+"/api/players/"+url.PathEscape("Warren Zaïre-Emery"), &player); code != 200 {
		t.Fatalf("player: %d", code)
	}
	if len(player.Entries) != 1 || player.Entries[0].Position != "MF" {
		t.Errorf("unexpected player entry: %+v", player)
	}
	if code := getJSON(t, ts.URL+"/api/players/Nobody", nil); code != 404 {
		t.Errorf("unknown player expected 404, got %d", code)
	}

	var variance VarianceResponse
	getJSON(t, ts.URL+"/api/variance", &variance)
	if len(variance.Components) != 4 {
		t.Fatalf("variance rows: %d", len(variance.Components))
	}
	var total float64
	for _, c := range variance.Components {
		total += c.Percent
	}
	if total < 100-1e-6 || total > 100+1e-6 {
		t.Errorf("variance percentages sum to %v", total)
	}

	var loadings LoadingsResponse
	getJSON(t, ts.URL+"/api/loadings", &loadings)
	if len(loadings.Loadings) != 4 || loadings.Loadings[3].Attribute != "Tackles" {
		t.Errorf("loadings: %+v", loadings.Loadings)
	}

	var projection ProjectionResponse
	getJSON(t, ts.URL+"/api/projection", &projection)
	if len(projection.Players) != 6 || projection.Key == "" {
		t.Errorf("projection: %+v", projection)
	}
	if projection.FittedAt.IsZero() || !projection.FittedAt.Equal(s.Engine.Snapshot().FittedAt) {
		t.Errorf("projection fitted_at: %v", projection.FittedAt)
	}
}

func TestPlayerNameWithSlash(t *testing.T) {
	ts, _ := newTestServerWith(t, leagueCSV+"Salih Özcan/Jr;MF;0.1;0.9;1.0;1.8\n", "")

	var player PlayerResponse
	code := getJSON(t, ts.URL+"/api/players/"+url.PathEscape("Salih Özcan/Jr"), &player)
	if code != 200 {
		t.Fatalf("escaped slash: %d", code)
	}
	if player.Player != "Salih Özcan/Jr" || len(player.Entries) != 1 {
		t.Errorf("unexpected player: %+v", player)
	}

	code = getJSON(t, ts.URL+"/api/players/Salih%20%C3%96zcan/Jr", &player)
	if code != 200 || player.Player != "Salih Özcan/Jr" {
		t.Errorf("raw slash: %d %+v", code, player)
	}
}

func TestNeighborsEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, "")

	var report engine.NeighborReport
	code := getJSON(t, ts.URL+"/api/neighbors?player="+url.QueryEscape("Marquinhos")+"&k=2", &report)
	if code != 200 || !report.Found {
		t.Fatalf("neighbors: %d %+v", code, report)
	}
	if len(report.Global) != 2 || len(report.SamePosition) != 1 || report.SamePosition[0].Player != "Achraf Hakimi" {
		t.Errorf("unexpected neighbors: %+v", report)
	}

	code = getJSON(t, ts.URL+"/api/neighbors?player=Messi", &report)
	if code != 404 || report.Found || len(report.Global) != 0 {
		t.Errorf("unknown player: %d %+v", code, report)
	}

	if code := getJSON(t, ts.URL+"/api/neighbors?player=Vitinha&k=abc", nil); code != 400 {
		t.Errorf("bad k expected 400, got %d", code)
	}

	resp, err := http.Post(ts.URL+"/api/neighbors", "application/json", strings.NewReader(`{"player":"Vitinha","k":3}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var posted engine.NeighborReport
	json.NewDecoder(resp.Body).Decode(&posted)
	if resp.StatusCode != 200 || len(posted.Global) != 3 {
		t.Errorf("POST neighbors: %d %+v", resp.StatusCode, posted)
	}

	bad, err := http.Post(ts.URL+"/api/neighbors", "application/json", strings.NewReader(`{"k":3}`))
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != 400 {
		t.Errorf("schema violation expected 400, got %d", bad.StatusCode)
	}
}

func TestPlaceEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, "")

	body := `{"attributes":{"Goals":0.1,"Shots":1.1,"KeyPasses":2.1,"Tackles":1.9}}`
	resp, err := http.Post(ts.URL+"/api/place", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var placed PlaceResponse
	json.NewDecoder(resp.Body).Decode(&placed)
	if resp.StatusCode != 200 || placed.Archetype == "" {
		t.Errorf("place: %d %+v", resp.StatusCode, placed)
	}

	missing, err := http.Post(ts.URL+"/api/place", "application/json", strings.NewReader(`{"attributes":{"Goals":1}}`))
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != 400 {
		t.Errorf("missing attribute expected 400, got %d", missing.StatusCode)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, "")

	var schema map[string]any
	if code := getJSON(t, ts.URL+"/api/schema/neighbors", &schema); code != 200 {
		t.Fatalf("schema: %d", code)
	}
	props, _ := schema["properties"].(map[string]any)
	if _, ok := props["player"]; !ok {
		t.Errorf("schema lacks player property: %v", schema)
	}
	if code := getJSON(t, ts.URL+"/api/schema/unknown", nil); code != 404 {
		t.Errorf("unknown schema expected 404, got %d", code)
	}
}

func TestReloadTask(t *testing.T) {
	ts, s := newTestServer(t, "")

	resp, err := http.Post(ts.URL+"/system/reload", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	var task TaskView
	json.NewDecoder(resp.Body).Decode(&task)
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted || task.ID == "" {
		t.Fatalf("reload: %d %+v", resp.StatusCode, task)
	}

	s.taskManager.Wait()

	var done TaskView
	if code := getJSON(t, ts.URL+"/system/tasks/"+task.ID, &done); code != 200 {
		t.Fatalf("task status: %d", code)
	}
	if done.Status != TaskStatusCompleted || done.Result != s.Engine.Snapshot().Key {
		t.Errorf("unexpected task state: %+v", done)
	}
	if done.FinishedAt == nil || done.FinishedAt.Before(done.StartedAt.Add(-time.Second)) {
		t.Errorf("finished_at not recorded")
	}

	if code := getJSON(t, ts.URL+"/system/tasks/does-not-exist", nil); code != 404 {
		t.Errorf("unknown task expected 404, got %d", code)
	}
}
