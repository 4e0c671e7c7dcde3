package yandex

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultVisionBaseURL = "https://vision.api.cloud.yandex.net/vision/v1/batchAnalyze"

// Vision detects text on images via the Yandex Vision API.
type Vision struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// VisionConfig holds Vision settings.
type VisionConfig struct {
	APIKey  string
	BaseURL string        // defaults to the public API endpoint
	Timeout time.Duration // defaults to 10s
}

// NewVision creates a Yandex Vision client.
func NewVision(cfg VisionConfig) *Vision {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultVisionBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Vision{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type visionRequest struct {
	FolderID     string        `json:"folderId"`
	AnalyzeSpecs []analyzeSpec `json:"analyzeSpecs"`
}

type analyzeSpec struct {
	Content  string    `json:"content"`
	Features []feature `json:"features"`
}

type feature struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Results []struct {
		Results []struct {
			TextDetection struct {
				Pages []struct {
					Blocks []struct {
						Lines []struct {
							Words []struct {
								Text string `json:"text"`
							} `json:"words"`
						} `json:"lines"`
					} `json:"blocks"`
				} `json:"pages"`
			} `json:"textDetection"`
		} `json:"results"`
	} `json:"results"`
}

// DetectText runs TEXT_DETECTION over the image and returns the detected
// lines joined with newlines, or "" when nothing was found.
func (v *Vision) DetectText(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(visionRequest{
		FolderID: "auto",
		AnalyzeSpecs: []analyzeSpec{{
			Content:  base64.StdEncoding.EncodeToString(image),
			Features: []feature{{Type: "TEXT_DETECTION"}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build vision request: %w", err)
	}
	req.Header.Set("Authorization", "Api-Key "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision API returned status %d", resp.StatusCode)
	}

	var vr visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return "", fmt.Errorf("decoding vision response: %w", err)
	}

	return joinDetectedLines(vr), nil
}

func joinDetectedLines(vr visionResponse) string {
	var lines []string
	for _, outer := range vr.Results {
		for _, result := range outer.Results {
			for _, page := range result.TextDetection.Pages {
				for _, block := range page.Blocks {
					for _, line := range block.Lines {
						words := make([]string, 0, len(line.Words))
						for _, w := range line.Words {
							if w.Text != "" {
								words = append(words, w.Text)
							}
						}
						if text := strings.TrimSpace(strings.Join(words, " ")); text != "" {
							lines = append(lines, text)
						}
					}
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}
