package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/snaghq/snag/internal/config"
	"github.com/snaghq/snag/internal/ops"
	"github.com/snaghq/snag/internal/record"
)

// testServer returns a handler wired to a fresh config dir plus one tracked
// project containing a single open record with a screenshot.
func testServer(t *testing.T) (http.Handler, string, *ops.CaptureOutput) {
	t.Helper()

	cfgDir := t.TempDir()
	project := t.TempDir()

	cfg, err := config.Load(cfgDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := config.AddProject(cfgDir, cfg, project); err != nil {
		t.Fatal(err)
	}

	captured, err := ops.Capture(ops.CaptureInput{
		ProjectPath: project,
		Description: "Login button broken!!",
		Details:     "It does nothing.",
		Tags:        []string{"ui"},
		Image:       []byte("png-bytes"),
		CapturedAt:  time.Date(2024, 3, 1, 10, 15, 30, 0, time.Local),
	})
	if err != nil {
		t.Fatal(err)
	}

	return newMux(cfgDir), project, captured
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestProjects(t *testing.T) {
	h, project, _ := testServer(t)

	rr := doRequest(t, h, http.MethodGet, "/api/projects", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	projects := decodeBody[[]map[string]any](t, rr)
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if projects[0]["path"] != project {
		t.Errorf("path = %v", projects[0]["path"])
	}
	stats, ok := projects[0]["stats"].(map[string]any)
	if !ok || stats["open"] != float64(1) {
		t.Errorf("stats = %v, want 1 open", projects[0]["stats"])
	}
}

func TestIssues(t *testing.T) {
	h, project, captured := testServer(t)

	rr := doRequest(t, h, http.MethodGet, "/api/issues?project="+url.QueryEscape(project), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	issues := decodeBody[[]map[string]any](t, rr)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0]["id"] != captured.ID {
		t.Errorf("id = %v", issues[0]["id"])
	}
	if issues[0]["hasScreenshot"] != true {
		t.Error("hasScreenshot missing or false")
	}
}

func TestIssues_MissingProjectParam(t *testing.T) {
	h, _, _ := testServer(t)

	rr := doRequest(t, h, http.MethodGet, "/api/issues", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	body := decodeBody[map[string]string](t, rr)
	if body["error"] != "Missing ?project= parameter" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestIssueDetail(t *testing.T) {
	h, project, captured := testServer(t)

	target := fmt.Sprintf("/api/issues/%s?project=%s", captured.ID, url.QueryEscape(project))
	rr := doRequest(t, h, http.MethodGet, target, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	detail := decodeBody[map[string]any](t, rr)
	if detail["id"] != captured.ID {
		t.Errorf("id = %v", detail["id"])
	}
	content, _ := detail["content"].(string)
	if !strings.Contains(content, "# Login button broken!!") {
		t.Errorf("content = %q", content)
	}
	rendered, _ := detail["renderedHtml"].(string)
	if !strings.Contains(rendered, "<h1>") {
		t.Errorf("renderedHtml = %q, want markdown converted to HTML", rendered)
	}
}

func TestIssueDetail_NotFound(t *testing.T) {
	h, project, _ := testServer(t)

	target := "/api/issues/2024-01-01-000000-nope?project=" + url.QueryEscape(project)
	rr := doRequest(t, h, http.MethodGet, target, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestPatchIssue_ReadAfterWrite(t *testing.T) {
	h, project, captured := testServer(t)

	body := fmt.Sprintf(`{"project": %q, "status": "resolved"}`, project)
	rr := doRequest(t, h, http.MethodPatch, "/api/issues/"+captured.ID, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	target := fmt.Sprintf("/api/issues/%s?project=%s", captured.ID, url.QueryEscape(project))
	detail := decodeBody[map[string]any](t, doRequest(t, h, http.MethodGet, target, ""))
	if detail["status"] != record.StatusResolved {
		t.Errorf("status after PATCH = %v, want resolved", detail["status"])
	}
}

func TestPatchIssue_BadBody(t *testing.T) {
	h, _, captured := testServer(t)

	rr := doRequest(t, h, http.MethodPatch, "/api/issues/"+captured.ID, "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: status = %d, want 400", rr.Code)
	}

	rr = doRequest(t, h, http.MethodPatch, "/api/issues/"+captured.ID, `{"status": "resolved"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing project: status = %d, want 400", rr.Code)
	}
	body := decodeBody[map[string]string](t, rr)
	if body["error"] != "Missing project in body" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestNext(t *testing.T) {
	h, _, captured := testServer(t)

	// No explicit project: falls back to the configured MRU list.
	rr := doRequest(t, h, http.MethodGet, "/api/issues/next", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	next := decodeBody[map[string]any](t, rr)
	if next["id"] != captured.ID {
		t.Errorf("id = %v", next["id"])
	}
}

func TestNext_NullWhenNoneOpen(t *testing.T) {
	h, project, captured := testServer(t)

	body := fmt.Sprintf(`{"project": %q, "status": "resolved"}`, project)
	doRequest(t, h, http.MethodPatch, "/api/issues/"+captured.ID, body)

	rr := doRequest(t, h, http.MethodGet, "/api/issues/next?project="+url.QueryEscape(project), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "null" {
		t.Errorf("body = %q, want null", got)
	}
}

func TestScreenshot(t *testing.T) {
	h, project, captured := testServer(t)

	target := fmt.Sprintf("/screenshots?project=%s&file=%s.png", url.QueryEscape(project), captured.ID)
	rr := doRequest(t, h, http.MethodGet, target, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rr.Body.String() != "png-bytes" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestScreenshot_TraversalBlocked(t *testing.T) {
	h, project, _ := testServer(t)

	target := fmt.Sprintf("/screenshots?project=%s&file=%s",
		url.QueryEscape(project), url.QueryEscape("../../../etc/passwd"))
	rr := doRequest(t, h, http.MethodGet, target, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for traversal filename", rr.Code)
	}
}

func TestPathTraversalGuard(t *testing.T) {
	h, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/web/app.js", nil)
	req.URL.Path = "/web/../secret"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for .. in path", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _, _ := testServer(t)

	rr := doRequest(t, h, http.MethodOptions, "/api/issues", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") {
		t.Errorf("Allow-Methods = %q", got)
	}
}

func TestIndexServed(t *testing.T) {
	h, _, _ := testServer(t)

	for _, target := range []string{"/", "/web"} {
		rr := doRequest(t, h, http.MethodGet, target, "")
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d", target, rr.Code)
			continue
		}
		if !strings.Contains(rr.Body.String(), "<html") {
			t.Errorf("GET %s: body does not look like the dashboard page", target)
		}
	}
}
