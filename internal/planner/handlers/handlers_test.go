package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"tile-planner/internal/common/middleware"
	"tile-planner/internal/planner/editor"
	"tile-planner/internal/planner/layout"
	"tile-planner/internal/planner/render"
	"tile-planner/internal/planner/repository"
	"tile-planner/internal/planner/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	sessions := service.NewSessionManager(repo, editor.Options{Width: 40, Height: 40, PaletteMax: 2}, layout.DefaultTemplate())
	health := NewHealthHandler(db)

	app := fiber.New()
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	NewPlannerHandler(sessions, render.New()).Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/sessions", "")
	if status != http.StatusCreated {
		t.Fatalf("create session: %d %s", status, body)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ID == "" {
		t.Fatalf("create session body %s: %v", body, err)
	}
	return resp.ID
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		if status, body := do(t, app, http.MethodGet, path, ""); status != http.StatusOK {
			t.Errorf("%s: %d %s", path, status, body)
		}
	}
}

func TestPaintFlow(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	base := "/sessions/" + id

	if status, body := do(t, app, http.MethodPost, base+"/palette", `{"color":"RED"}`); status != http.StatusCreated {
		t.Fatalf("add color: %d %s", status, body)
	}
	status, body := do(t, app, http.MethodPost, base+"/pointer", `{"type":"down","x":55,"y":55,"buttons":1}`)
	if status != http.StatusOK {
		t.Fatalf("pointer: %d %s", status, body)
	}
	var ptr struct {
		Outcome editor.Outcome `json:"outcome"`
	}
	json.Unmarshal(body, &ptr)
	if !ptr.Outcome.Painted || ptr.Outcome.Row != 5 || ptr.Outcome.Col != 5 {
		t.Errorf("outcome = %+v", ptr.Outcome)
	}

	status, body = do(t, app, http.MethodGet, base+"/cells/5/5", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"color":"#c43a34"`) {
		t.Errorf("cell: %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, base+"/svg", "")
	if status != http.StatusOK || !strings.Contains(string(body), `fill="#c43a34"`) {
		t.Errorf("svg: %d", status)
	}
}

func TestPointerFromClientCoordinates(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	base := "/sessions/" + id

	do(t, app, http.MethodPost, base+"/palette", `{"color":"#00ff00"}`)
	// a surface the same size as the view box at the origin maps 1:1 after the offset
	geo := layout.Derive(layout.DefaultTemplate())
	body := `{"type":"down","x":` + ftoa(-geo.ViewBox.X+1) + `,"y":` + ftoa(-geo.ViewBox.Y+1) +
		`,"buttons":1,"surface":{"left":0,"top":0,"width":` + ftoa(geo.ViewBox.Width) + `,"height":` + ftoa(geo.ViewBox.Height) + `}}`
	status, resp := do(t, app, http.MethodPost, base+"/pointer", body)
	if status != http.StatusOK || !strings.Contains(string(resp), `"painted":true`) {
		t.Fatalf("pointer: %d %s", status, resp)
	}
	if _, resp = do(t, app, http.MethodGet, base+"/cells/0/0", ""); !strings.Contains(string(resp), `"index":0`) {
		t.Errorf("cell (0,0) = %s", resp)
	}
}

func TestWallFlow(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	base := "/sessions/" + id

	if status, body := do(t, app, http.MethodPut, base+"/mode", `{"mode":"wall"}`); status != http.StatusOK {
		t.Fatalf("mode: %d %s", status, body)
	}
	do(t, app, http.MethodPost, base+"/pointer", `{"type":"down","x":10,"y":10}`)
	do(t, app, http.MethodPost, base+"/pointer", `{"type":"move","x":100,"y":20}`)

	_, body := do(t, app, http.MethodGet, base+"/preview", "")
	if !strings.Contains(string(body), `"drafting":true`) {
		t.Errorf("preview = %s", body)
	}

	do(t, app, http.MethodPost, base+"/pointer", `{"type":"up","x":100,"y":20}`)
	_, body = do(t, app, http.MethodGet, base+"/walls", "")
	var walls struct {
		Walls []map[string]float64 `json:"walls"`
	}
	json.Unmarshal(body, &walls)
	if len(walls.Walls) != 1 || walls.Walls[0]["x2"] != 100 {
		t.Errorf("walls = %s", body)
	}

	do(t, app, http.MethodDelete, base+"/walls", "")
	_, body = do(t, app, http.MethodGet, base+"/walls", "")
	if !strings.Contains(string(body), `"walls":[]`) {
		t.Errorf("walls after clear = %s", body)
	}
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	base := "/sessions/" + id

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/sessions/missing", "", http.StatusNotFound},
		{http.MethodGet, base + "/cells/40/0", "", http.StatusBadRequest},
		{http.MethodGet, base + "/cells/x/0", "", http.StatusBadRequest},
		{http.MethodPut, base + "/active", `{"index":3}`, http.StatusBadRequest},
		{http.MethodPost, base + "/palette", `{"color":"nope nope"}`, http.StatusBadRequest},
		{http.MethodPost, base + "/palette", `{"color":"RED"}`, http.StatusCreated},
		{http.MethodPost, base + "/palette", `{"color":"BLUE"}`, http.StatusCreated},
		{http.MethodPost, base + "/palette", `{"color":"WHITE"}`, http.StatusConflict},
		{http.MethodPut, base + "/mode", `{"mode":"erase"}`, http.StatusBadRequest},
		{http.MethodPost, base + "/pointer", `{"type":"click"}`, http.StatusBadRequest},
		{http.MethodPost, base + "/pointer", `{`, http.StatusBadRequest},
		{http.MethodDelete, base + "/palette/9", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if status, body := do(t, app, tt.method, tt.path, tt.body); status != tt.want {
			t.Errorf("%s %s: %d %s, want %d", tt.method, tt.path, status, body, tt.want)
		}
	}
}

func TestRemoveColorThroughAPI(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	base := "/sessions/" + id

	do(t, app, http.MethodPost, base+"/palette", `{"color":"RED"}`)
	do(t, app, http.MethodPost, base+"/palette", `{"color":"BLUE"}`)
	do(t, app, http.MethodPost, base+"/cells/0/0", `{"index":0}`)
	do(t, app, http.MethodPost, base+"/cells/0/1", `{"index":1}`)

	if status, body := do(t, app, http.MethodDelete, base+"/palette/0", ""); status != http.StatusOK {
		t.Fatalf("remove: %d %s", status, body)
	}
	if _, body := do(t, app, http.MethodGet, base+"/cells/0/0", ""); !strings.Contains(string(body), `"index":null`) {
		t.Errorf("removed color still referenced: %s", body)
	}
	if _, body := do(t, app, http.MethodGet, base+"/cells/0/1", ""); !strings.Contains(string(body), `"index":0`) {
		t.Errorf("later color not shifted: %s", body)
	}
}

func TestSessionRecordedForRequestLog(t *testing.T) {
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	sessions := service.NewSessionManager(repo, editor.Options{}, layout.DefaultTemplate())

	var logged []any
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		err := c.Next()
		logged = append(logged, c.Locals(middleware.LocalSession))
		return err
	})
	NewPlannerHandler(sessions, render.New()).Register(app)

	id := createSession(t, app)
	do(t, app, http.MethodGet, "/sessions/"+id+"/walls", "")
	do(t, app, http.MethodGet, "/catalog", "")

	if len(logged) != 3 || logged[0] != id || logged[1] != id || logged[2] != nil {
		t.Errorf("session locals = %v, want [%s %s <nil>]", logged, id, id)
	}
}

func TestSessionLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	if status, body := do(t, app, http.MethodGet, "/sessions", ""); status != http.StatusOK || !strings.Contains(string(body), id) {
		t.Errorf("list: %d %s", status, body)
	}
	if status, _ := do(t, app, http.MethodDelete, "/sessions/"+id, ""); status != http.StatusNoContent {
		t.Errorf("delete: %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/sessions/"+id, ""); status != http.StatusNotFound {
		t.Errorf("get after delete: %d", status)
	}
}

func TestReferenceRoutes(t *testing.T) {
	app := newTestApp(t)
	if _, body := do(t, app, http.MethodGet, "/catalog", ""); !strings.Contains(string(body), `"BORDEAUX"`) {
		t.Errorf("catalog = %.200s", body)
	}
	if _, body := do(t, app, http.MethodGet, "/layout", ""); !strings.Contains(string(body), `"width":"3.15m"`) {
		t.Errorf("layout = %.300s", body)
	}
	if _, body := do(t, app, http.MethodGet, "/units/format?cm=55", ""); !strings.Contains(string(body), `"label":"55cm"`) {
		t.Errorf("format = %s", body)
	}
	if status, _ := do(t, app, http.MethodGet, "/units/format?cm=abc", ""); status != http.StatusBadRequest {
		t.Errorf("bad cm: %d", status)
	}
}

func ftoa(f float64) string {
	data, _ := json.Marshal(f)
	return string(data)
}
