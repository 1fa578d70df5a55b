package handlers

import (
	"net/http"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// Every registered route must be described in openapi.yaml.
func TestOpenAPICoversRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		t.Fatalf("openapi.yaml: %v", err)
	}

	app := newTestApp(t)
	for _, route := range app.GetRoutes(true) {
		if route.Method == http.MethodHead {
			continue
		}
		path := toOpenAPIPath(route.Path)
		ops, ok := doc.Paths[path]
		if !ok {
			t.Errorf("%s is not documented", path)
			continue
		}
		if _, ok := ops[strings.ToLower(route.Method)]; !ok {
			t.Errorf("%s %s is not documented", route.Method, path)
		}
	}
}

func TestDocsRoutes(t *testing.T) {
	app := newTestApp(t)
	if status, body := do(t, app, http.MethodGet, "/docs/openapi.yaml", ""); status != http.StatusOK || !strings.HasPrefix(string(body), "openapi:") {
		t.Errorf("spec: %d %.40s", status, body)
	}
	if status, body := do(t, app, http.MethodGet, "/docs", ""); status != http.StatusOK || !strings.Contains(string(body), "swagger-ui") {
		t.Errorf("ui: %d", status)
	}
}

// toOpenAPIPath turns /sessions/:id into /sessions/{id}.
func toOpenAPIPath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}
