// Package services holds clients for external collaborators.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"project/backend/models"
)

// Transcriber turns a video URL into transcript segments by calling an
// external transcription service.
type Transcriber interface {
	Transcribe(ctx context.Context, videoURL string) ([]models.TranscriptSegment, error)
}

type HTTPTranscriber struct {
	URL    string
	Client *http.Client
}

func NewHTTPTranscriber(url string) *HTTPTranscriber {
	return &HTTPTranscriber{
		URL:    strings.TrimRight(url, "/"),
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, videoURL string) ([]models.TranscriptSegment, error) {
	if t.URL == "" {
		return nil, errors.New("transcriber service not configured")
	}

	body, err := json.Marshal(map[string]string{"video_url": videoURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL+"/transcribe", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcriber returned status %d", resp.StatusCode)
	}

	var out struct {
		Segments []models.TranscriptSegment `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return out.Segments, nil
}
