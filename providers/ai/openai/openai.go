package openai

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/HamzaKV/ai-sdk/internal/utils"
	"github.com/HamzaKV/ai-sdk/providers/ai"
)

const (
	// Name is the provider name used in call keys.
	Name = "openai"

	defaultBaseURL = "https://api.openai.com/v1"
)

// Model and call names registered by Definition.
const (
	ModelEmbedding = "embedding"
	ModelText      = "text"
	ModelImages    = "images"

	CallEmbed          = "embed"
	CallCreateResponse = "create_response"
	CallStreamResponse = "stream_response"
	CallGetResponse    = "get_response"
	CallDeleteResponse = "delete_response"
	CallListInputItems = "list_input_items"
	CallCreateImage    = "create"
)

// Definition describes every OpenAI call.
var Definition = ai.Definition{
	Name:     Name,
	Defaults: ai.Config{BaseURL: defaultBaseURL},
	Models: map[string]map[string]ai.CallFunc{
		ModelEmbedding: {
			CallEmbed: ai.Typed(embed),
		},
		ModelText: {
			CallCreateResponse: ai.Typed(createResponse),
			CallStreamResponse: ai.Typed(streamResponse),
			CallGetResponse:    ai.Typed(getResponse),
			CallDeleteResponse: ai.Typed(deleteResponse),
			CallListInputItems: ai.Typed(listInputItems),
		},
		ModelImages: {
			CallCreateImage: ai.Typed(createImage),
		},
	},
}

// New binds a configuration read from OPENAI_API_KEY and OPENAI_API_BASE_URL.
func New() *ai.Instance {
	return Definition.New(ai.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_API_BASE_URL"),
	})
}

func headers(cfg ai.Config) map[string]string {
	h := map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	if cfg.Organization != "" {
		h["OpenAI-Organization"] = cfg.Organization
	}
	for k, v := range cfg.Headers {
		h[k] = v
	}
	return h
}

func request(cfg ai.Config, method, path string, body any) (utils.Request, error) {
	if cfg.APIKey == "" {
		return utils.Request{}, ai.ErrMissingAPIKey
	}
	return utils.Request{
		Method:  method,
		URL:     strings.TrimRight(cfg.BaseURL, "/") + path,
		Headers: headers(cfg),
		Body:    body,
		Timeout: cfg.Timeout,
	}, nil
}

func doJSON[T any](ctx context.Context, cfg ai.Config, method, path string, body any) (*T, error) {
	req, err := request(cfg, method, path, body)
	if err != nil {
		return nil, err
	}
	out, err := utils.DoJSON[T](ctx, cfg.Client(), req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func responsePath(id string, suffix string) string {
	return "/responses/" + url.PathEscape(id) + suffix
}
