// Package narrative turns computed behavior metrics into a short
// Gemini-written summary for the portal's overview page. It is entirely
// optional: no API key, no narrative.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/codeGROOVE-dev/retry"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash-lite"

// Cache stores narrative responses keyed by prompt so re-analysis of an
// unchanged dataset never hits the API twice.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
}

// Response is the structured narrative returned by the model.
type Response struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
}

// Generator produces narratives via the Gemini API.
type Generator struct {
	apiKey     string
	model      string
	gcpProject string
	reportURL  string
	cache      Cache
	logger     *slog.Logger
	httpClient *http.Client
}

// New builds a Generator. cache may be nil.
func New(apiKey, model, gcpProject, reportURL string, cache Cache, logger *slog.Logger) *Generator {
	if model == "" {
		model = defaultModel
	}
	return &Generator{
		apiKey:     apiKey,
		model:      model,
		gcpProject: gcpProject,
		reportURL:  reportURL,
		cache:      cache,
		logger:     logger,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Generate renders the metric prompt, calls Gemini, and returns the
// narrative text. Failures are the caller's to log; the analysis itself
// never depends on this.
func (g *Generator) Generate(ctx context.Context, metrics PromptData) (string, error) {
	// The cache key covers the computed metrics only. The vendor report
	// page is volatile context and is fetched only on a miss, so a hit
	// costs no network round-trips at all.
	cacheKey := fmt.Sprintf("narrative:%s:%s", g.model, buildPrompt(metrics, ""))
	if g.cache != nil {
		if data, found := g.cache.Get(cacheKey); found {
			var cached Response
			if err := json.Unmarshal(data, &cached); err == nil && cached.Summary != "" {
				g.logger.Debug("narrative cache hit")
				return render(cached), nil
			}
		}
	}

	prompt := buildPrompt(metrics, g.fetchReportNotes(ctx))

	client, err := genai.NewClient(ctx, g.clientConfig())
	if err != nil {
		return "", fmt.Errorf("creating genai client: %w", err)
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  800,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	var resp *genai.GenerateContentResponse
	err = retry.Do(
		func() error {
			var callErr error
			resp, callErr = client.Models.GenerateContent(ctx, g.model, contents, config)
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Debug("retrying narrative call", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in Gemini response")
	}
	text := candidate.Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	var parsed Response
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return "", fmt.Errorf("parsing narrative response: %w", err)
	}
	if g.cache != nil {
		g.cache.Set(cacheKey, []byte(text))
	}
	return render(parsed), nil
}

func render(r Response) string {
	if r.Headline == "" {
		return r.Summary
	}
	return r.Headline + "\n\n" + r.Summary
}

func (g *Generator) clientConfig() *genai.ClientConfig {
	if g.apiKey != "" {
		return &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: g.apiKey}
	}
	project := g.gcpProject
	if project == "" {
		project = os.Getenv("GCP_PROJECT")
	}
	return &genai.ClientConfig{Backend: genai.BackendVertexAI, Project: project, Location: "us-central1"}
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"headline": {
				Type:        genai.TypeString,
				Description: "One-line characterization of the cat's activity pattern",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "Two to four sentences describing the behavior in plain language for the pet's owner",
			},
		},
		PropertyOrdering: []string{"headline", "summary"},
		Required:         []string{"headline", "summary"},
	}
}

// fetchReportNotes pulls the upstream vendor report page and converts it
// to markdown for extra prompt context. Any failure just means less
// context.
func (g *Generator) fetchReportNotes(ctx context.Context) string {
	if g.reportURL == "" {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.reportURL, http.NoBody)
	if err != nil {
		return ""
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Debug("report page fetch failed", "url", g.reportURL, "error", err)
		return ""
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return ""
	}
	markdown, err := md.ConvertString(string(body))
	if err != nil {
		g.logger.Debug("report page conversion failed", "error", err)
		return ""
	}
	return markdown
}
