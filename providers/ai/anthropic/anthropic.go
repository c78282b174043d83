package anthropic

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/HamzaKV/ai-sdk/core/client"
	"github.com/HamzaKV/ai-sdk/core/sse"
	"github.com/HamzaKV/ai-sdk/internal/utils"
	"github.com/HamzaKV/ai-sdk/providers/ai"
)

const (
	// Name is the provider name used in call keys.
	Name = "anthropic"

	// defaultBaseURL is the canonical base URL for Anthropic's Messages API.
	defaultBaseURL = "https://api.anthropic.com/v1"

	// messagesEndpoint is the path for the Messages API endpoint.
	messagesEndpoint = "/messages"

	// anthropicVersion is the default anthropic-version header value.
	anthropicVersion = "2023-06-01"

	// defaultMaxTokens is sent when the request leaves MaxTokens unset; the
	// API rejects requests without it.
	defaultMaxTokens = 1024
)

// Model and call names registered by Definition.
const (
	ModelClaude = "claude"

	CallMessages = "messages"
	CallStream   = "stream"
)

// Definition describes every Anthropic call.
var Definition = ai.Definition{
	Name: Name,
	Defaults: ai.Config{
		BaseURL:    defaultBaseURL,
		APIVersion: anthropicVersion,
	},
	Models: map[string]map[string]ai.CallFunc{
		ModelClaude: {
			CallMessages: ai.Typed(messages),
			CallStream:   ai.Typed(stream),
		},
	},
}

// New binds a configuration read from ANTHROPIC_API_KEY and
// ANTHROPIC_API_BASE_URL.
func New() *ai.Instance {
	return Definition.New(ai.Config{
		APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		BaseURL: os.Getenv("ANTHROPIC_API_BASE_URL"),
	})
}

// Messages runs claude.messages through c.
func Messages(ctx context.Context, c *client.Client, in MessagesRequest) (*Message, error) {
	return client.Call[*Message](ctx, c, client.Key{Provider: Name, Model: ModelClaude, Call: CallMessages}, in)
}

// Stream runs claude.stream through c. The caller closes the returned
// decoder.
func Stream(ctx context.Context, c *client.Client, in MessagesRequest) (*sse.Decoder[StreamEvent], error) {
	return client.Call[*sse.Decoder[StreamEvent]](ctx, c, client.Key{Provider: Name, Model: ModelClaude, Call: CallStream}, in)
}

func request(cfg ai.Config, in MessagesRequest, body any) (utils.Request, error) {
	if cfg.APIKey == "" {
		return utils.Request{}, ai.ErrMissingAPIKey
	}
	headers := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": cfg.APIVersion,
	}
	if beta := betaHeaderValue(in.Betas, in.Thinking != nil); beta != "" {
		headers["anthropic-beta"] = beta
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	timeout := cfg.Timeout
	if in.FetchTimeout > 0 {
		timeout = in.FetchTimeout
	}
	return utils.Request{
		Method:  http.MethodPost,
		URL:     strings.TrimRight(cfg.BaseURL, "/") + messagesEndpoint,
		Headers: headers,
		Body:    body,
		Timeout: timeout,
	}, nil
}
