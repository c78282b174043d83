package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/HamzaKV/ai-sdk/providers/ai"
)

// EmbedRequest is the input of embedding.embed. Input holds one string or a
// batch.
type EmbedRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	Dimensions     int      `json:"dimensions,omitempty"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
	User           string   `json:"user,omitempty"`
}

// EmbedResponse is the result of embedding.embed.
type EmbedResponse struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// Embedding is one vector of an EmbedResponse.
type Embedding struct {
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// Vectors returns the embeddings in input order.
func (r *EmbedResponse) Vectors() [][]float64 {
	out := make([][]float64, len(r.Data))
	for _, d := range r.Data {
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = d.Embedding
		}
	}
	return out
}

func embed(ctx context.Context, in EmbedRequest, cfg ai.Config) (*EmbedResponse, error) {
	if len(in.Input) == 0 {
		return nil, errors.New("openai: embed input is empty")
	}
	return doJSON[EmbedResponse](ctx, cfg, http.MethodPost, "/embeddings", in)
}
