package mcp

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/snaghq/snag/internal/config"
	"github.com/snaghq/snag/internal/errors"
	"github.com/snaghq/snag/internal/ops"
	"github.com/snaghq/snag/internal/sweep"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfgDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfgDir string) *Handlers {
	return &Handlers{cfgDir: cfgDir}
}

// Request types for each tool

// CaptureRequest represents the arguments for snag_capture.
type CaptureRequest struct {
	Project     string `json:"project"`
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
	Tags        string `json:"tags,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
}

// ListRequest represents the arguments for snag_list.
type ListRequest struct {
	Project string `json:"project"`
	Status  string `json:"status,omitempty"`
}

// GetRequest represents the arguments for snag_get.
type GetRequest struct {
	Project string `json:"project"`
	ID      string `json:"id"`
}

// SetStatusRequest represents the arguments for snag_set_status.
type SetStatusRequest struct {
	Project string `json:"project"`
	ID      string `json:"id"`
	Status  string `json:"status"`
}

// NextRequest represents the arguments for snag_next.
type NextRequest struct {
	Project string `json:"project,omitempty"`
}

// Handler implementations

// HandleCapture handles the snag_capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var image []byte
	if input.ImagePath != "" {
		image, err = os.ReadFile(input.ImagePath)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("cannot read image: " + err.Error())), nil
		}
	}

	result, err := ops.Capture(ops.CaptureInput{
		ProjectPath: input.Project,
		Description: input.Description,
		Details:     input.Details,
		Tags:        parseTags(input.Tags),
		Image:       image,
	})
	if err != nil {
		return errorResult(err), nil
	}

	// Keep the MRU project list in sync, like a desktop capture would.
	if cfg, cfgErr := config.Load(h.cfgDir); cfgErr == nil {
		if touchErr := config.TouchProject(h.cfgDir, cfg, input.Project); touchErr != nil {
			logrus.WithError(touchErr).Warn("could not update project list")
		}
	}

	return successResult(result)
}

// HandleList handles the snag_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ops.ListInput{
		ProjectPath: input.Project,
		Status:      input.Status,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the snag_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ops.FetchInput{
		ProjectPath: input.Project,
		ID:          input.ID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSetStatus handles the snag_set_status tool call.
func (h *Handlers) HandleSetStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SetStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateStatus(ops.UpdateStatusInput{
		ProjectPath: input.Project,
		ID:          input.ID,
		Status:      input.Status,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNext handles the snag_next tool call.
func (h *Handlers) HandleNext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NextRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	projects := []string{input.Project}
	if input.Project == "" {
		cfg, cfgErr := config.Load(h.cfgDir)
		if cfgErr != nil {
			return errorResult(errors.NewInternal(cfgErr)), nil
		}
		projects = cfg.Projects
	}

	result, err := ops.Next(ops.NextInput{Projects: projects})
	if err != nil {
		return errorResult(err), nil
	}
	if result == nil {
		return successResult(map[string]any{"next": nil})
	}

	return successResult(result)
}

// HandleSweep handles the snag_sweep tool call.
func (h *Handlers) HandleSweep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := config.Load(h.cfgDir)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	results := sweep.All(cfg.Projects, sweep.Policy{
		RetentionDays:      cfg.Cleanup.RetentionDays,
		AutoDeleteResolved: cfg.Cleanup.AutoDeleteResolved,
	})

	return successResult(results)
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.SnagError); ok {
		payload = map[string]any{
			"error": map[string]any{
				"code":    sErr.Code,
				"message": sErr.Message,
				"status":  sErr.Status,
			},
		}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
