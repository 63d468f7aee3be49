package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/snaghq/snag/internal/errors"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// renderError writes a JSON error body with the status carried by the
// SnagError, or 500 for anything else. Filesystem failures surface as an
// error body, never a process crash.
func renderError(w http.ResponseWriter, err error) {
	var sErr *errors.SnagError
	if !stderrors.As(err, &sErr) {
		sErr = errors.NewInternal(err)
	}
	renderJSON(w, sErr.Status, map[string]any{"error": sErr.Message})
}

// renderMarkdown converts record markdown to HTML for the dashboard detail
// view. On conversion failure the raw text is returned so the detail page
// still shows something.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return buf.String()
}
