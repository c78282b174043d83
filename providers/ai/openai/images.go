package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/HamzaKV/ai-sdk/providers/ai"
)

// ImageRequest is the input of images.create.
type ImageRequest struct {
	Model          string `json:"model,omitempty"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
	Style          string `json:"style,omitempty"`
	Background     string `json:"background,omitempty"`
	OutputFormat   string `json:"output_format,omitempty"`
	User           string `json:"user,omitempty"`
}

// ImageResponse is the result of images.create.
type ImageResponse struct {
	Created int64   `json:"created"`
	Data    []Image `json:"data"`
	Usage   *struct {
		TotalTokens  int `json:"total_tokens"`
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage,omitempty"`
}

// Image is one generated image. Exactly one of URL and B64JSON is set.
type Image struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

func createImage(ctx context.Context, in ImageRequest, cfg ai.Config) (*ImageResponse, error) {
	if in.Prompt == "" {
		return nil, errors.New("openai: image prompt is empty")
	}
	return doJSON[ImageResponse](ctx, cfg, http.MethodPost, "/images/generations", in)
}
