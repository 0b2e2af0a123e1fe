package utils

import (
	"fmt"
	"pulse/config"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GeminiSummarizer synthesizes a batch of review texts into a short summary
// using the Gemini generateContent API.
type GeminiSummarizer struct {
	client *resty.Client
}

// NewSummarizer builds a summarizer with a bounded request timeout.
func NewSummarizer() *GeminiSummarizer {
	client := resty.New().
		SetBaseURL(config.AppConfig.GeminiApiUrl).
		SetTimeout(10 * time.Second)

	return &GeminiSummarizer{client: client}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize makes a single generateContent call and returns the model's
// prose. Failures are returned as-is for the caller to surface.
func (g *GeminiSummarizer) Summarize(texts []string) (string, error) {
	prompt := "Summarize the following student course reviews in a short paragraph. " +
		"Mention recurring praise and recurring complaints. Do not invent details.\n\n" +
		"Reviews:\n- " + strings.Join(texts, "\n- ")

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	var result geminiResponse
	resp, err := g.client.R().
		SetQueryParam("key", config.AppConfig.GeminiApiKey).
		SetBody(reqBody).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", config.AppConfig.GeminiModel))
	if err != nil {
		return "", fmt.Errorf("calling summarization API: %w", err)
	}

	if resp.IsError() {
		if result.Error.Message != "" {
			return "", fmt.Errorf("summarization API error: %s", result.Error.Message)
		}
		return "", fmt.Errorf("summarization API returned status %d", resp.StatusCode())
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("summarization API returned no candidates")
	}

	summary := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return "", fmt.Errorf("summarization API returned an empty summary")
	}

	return summary, nil
}
