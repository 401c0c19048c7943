package triage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPCollaborator talks to the external content-evaluation service over
// plain JSON. The request timeout comes from the caller's context.
type HTTPCollaborator struct {
	URL    string
	Client *http.Client
}

func NewHTTPCollaborator(url string) *HTTPCollaborator {
	return &HTTPCollaborator{
		URL:    url,
		Client: &http.Client{},
	}
}

type evaluateRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

func (h *HTTPCollaborator) Evaluate(ctx context.Context, req Request) (Response, error) {
	payload := evaluateRequest{
		Category:    req.Category,
		Description: req.Description,
		MimeType:    req.MimeType,
	}
	if len(req.Image) > 0 {
		payload.ImageBase64 = base64.StdEncoding.EncodeToString(req.Image)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := h.Client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("triage service returned %d", httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("malformed triage response: %w", err)
	}
	return resp, nil
}
