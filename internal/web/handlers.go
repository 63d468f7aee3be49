package web

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/snaghq/snag/internal/config"
	"github.com/snaghq/snag/internal/errors"
	"github.com/snaghq/snag/internal/ops"
)

// Handlers contains the dashboard API route handlers.
type Handlers struct {
	cfgDir string
}

// loadConfig reads the preference file fresh on every request so project
// list edits take effect immediately. There is no request-level caching
// anywhere in this layer.
func (h *Handlers) loadConfig() *config.Config {
	cfg, err := config.Load(h.cfgDir)
	if err != nil {
		logrus.WithError(err).Warn("config load failed, using defaults")
		return config.DefaultConfig()
	}
	return cfg
}

// projectEntry is one element of the /api/projects response.
type projectEntry struct {
	Path  string           `json:"path"`
	Name  string           `json:"name"`
	Stats ops.ProjectStats `json:"stats"`
}

// HandleProjects handles GET /api/projects.
func (h *Handlers) HandleProjects(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig()

	projects := make([]projectEntry, 0, len(cfg.Projects))
	for _, p := range cfg.Projects {
		projects = append(projects, projectEntry{
			Path:  p,
			Name:  filepath.Base(p),
			Stats: ops.Stats(p),
		})
	}
	renderJSON(w, http.StatusOK, projects)
}

// HandleIssues handles GET /api/issues?project=<path>&status=<open|resolved>.
func (h *Handlers) HandleIssues(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		renderError(w, errors.NewInvalidRequest("Missing ?project= parameter"))
		return
	}

	issues, err := ops.List(ops.ListInput{
		ProjectPath: project,
		Status:      r.URL.Query().Get("status"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, issues)
}

// HandleNext handles GET /api/issues/next?project=<path>. Without a project
// parameter, every configured project is scanned in MRU order. A null body
// means no open issues anywhere.
func (h *Handlers) HandleNext(w http.ResponseWriter, r *http.Request) {
	projects := []string{r.URL.Query().Get("project")}
	if projects[0] == "" {
		projects = h.loadConfig().Projects
	}

	next, err := ops.Next(ops.NextInput{Projects: projects})
	if err != nil {
		renderError(w, err)
		return
	}
	if next == nil {
		renderJSON(w, http.StatusOK, nil)
		return
	}
	renderJSON(w, http.StatusOK, next)
}

// issueDetail is the /api/issues/{id} response: the decoded record, its raw
// stored text, and the body rendered to HTML for the dashboard.
type issueDetail struct {
	ops.Issue
	Content      string `json:"content"`
	RenderedHTML string `json:"renderedHtml"`
}

// HandleIssueDetail handles GET /api/issues/{id}?project=<path>.
func (h *Handlers) HandleIssueDetail(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		renderError(w, errors.NewInvalidRequest("Missing ?project= parameter"))
		return
	}

	result, err := ops.Fetch(ops.FetchInput{
		ProjectPath: project,
		ID:          r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, issueDetail{
		Issue:        result.Issue,
		Content:      result.Content,
		RenderedHTML: renderMarkdown(result.Content),
	})
}

// patchIssueRequest is the PATCH /api/issues/{id} body.
type patchIssueRequest struct {
	Project string `json:"project"`
	Status  string `json:"status"`
}

// HandlePatchIssue handles PATCH /api/issues/{id} with a JSON body
// {project, status}. The status string is stored verbatim.
func (h *Handlers) HandlePatchIssue(w http.ResponseWriter, r *http.Request) {
	var req patchIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}
	if req.Project == "" {
		renderError(w, errors.NewInvalidRequest("Missing project in body"))
		return
	}

	result, err := ops.UpdateStatus(ops.UpdateStatusInput{
		ProjectPath: req.Project,
		ID:          r.PathValue("id"),
		Status:      req.Status,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleScreenshot handles GET /screenshots?project=<path>&file=<name>,
// streaming a binary asset from the project's record directory. The
// filename is reduced to its base name before joining, so traversal
// sequences cannot reach outside the record directory.
func (h *Handlers) HandleScreenshot(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	file := r.URL.Query().Get("file")
	if project == "" || file == "" {
		renderError(w, errors.NewInvalidRequest("Missing params"))
		return
	}

	safe := filepath.Base(file)
	path := filepath.Join(ops.SnagDir(project), safe)

	f, err := os.Open(path)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", mimeForExt(filepath.Ext(safe)))
	_, _ = io.Copy(w, f)
}

// mimeForExt maps asset extensions to content types.
func mimeForExt(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".md":
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}
