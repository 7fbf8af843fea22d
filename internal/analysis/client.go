// Package analysis talks to the external solver service. Requests are
// fire-and-forget from the editor's point of view: the dispatcher
// debounces bursts of edits and drops responses that arrive after a
// newer request for the same target has been issued.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"framecraft.app/internal/structure"
	"framecraft.app/internal/takedown"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// solverError is the service's error payload.
type solverError struct {
	Detail string `json:"detail"`
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var se solverError
		if json.Unmarshal(b, &se) == nil && se.Detail != "" {
			return fmt.Errorf("solver %s: %s", resp.Status, se.Detail)
		}
		return fmt.Errorf("solver %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// AnalyzeStructure runs the 2D frame/truss solution.
func (c *Client) AnalyzeStructure(ctx context.Context, in structure.StructureInput) (*StructureResult, error) {
	var out StructureResult
	if err := c.post(ctx, "/analyze", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchDiagrams requests the distributed member diagrams for one
// combination.
func (c *Client) FetchDiagrams(ctx context.Context, in structure.StructureInput, combination string) (*DiagramResult, error) {
	req := diagramRequest{Structure: in, Combination: combination}
	var out DiagramResult
	if err := c.post(ctx, "/diagrams", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeTakedown runs the 3D gravity load takedown.
func (c *Client) AnalyzeTakedown(ctx context.Context, in takedown.ModelInput) (*takedown.AnalysisResult, error) {
	var out takedown.AnalysisResult
	if err := c.post(ctx, "/takedown/analyze", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type diagramRequest struct {
	Structure   structure.StructureInput `json:"structure"`
	Combination string                   `json:"combination"`
}
