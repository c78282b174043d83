package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/HamzaKV/ai-sdk/core/sse"
	"github.com/HamzaKV/ai-sdk/internal/utils"
	"github.com/HamzaKV/ai-sdk/providers/ai"
	"github.com/HamzaKV/ai-sdk/providers/tool"
)

func buildRequest(in MessagesRequest, stream bool) (wireRequest, error) {
	if in.Model == "" {
		return wireRequest{}, errors.New("anthropic: model is required")
	}
	if len(in.Messages) == 0 {
		return wireRequest{}, errors.New("anthropic: at least one message is required")
	}
	if in.MaxTokens <= 0 {
		in.MaxTokens = defaultMaxTokens
	}

	req := wireRequest{MessagesRequest: in, Stream: stream}
	for _, t := range in.Tools.All() {
		schema := t.Parameters
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		req.Tools = append(req.Tools, wireTool{Name: t.Name, Description: t.Description, InputSchema: schema})
	}
	return req, nil
}

func messages(ctx context.Context, in MessagesRequest, cfg ai.Config) (*Message, error) {
	body, err := buildRequest(in, false)
	if err != nil {
		return nil, err
	}
	req, err := request(cfg, in, body)
	if err != nil {
		return nil, err
	}

	msg, err := utils.DoJSON[Message](ctx, cfg.Client(), req)
	if err != nil {
		return nil, err
	}
	if in.Tools.Len() > 0 {
		runToolUses(ctx, in.Tools, &msg)
	}
	return &msg, nil
}

// runToolUses executes every tool_use block and records the result on the
// block. A failing tool does not fail the message.
func runToolUses(ctx context.Context, tools *tool.Set, msg *Message) {
	for i := range msg.Content {
		block := &msg.Content[i]
		if block.Type != "tool_use" {
			continue
		}
		out, err := tools.Execute(ctx, block.Name, string(block.Input))
		if err != nil {
			block.ResultError = err.Error()
			continue
		}
		block.Result = out
	}
}

func stream(ctx context.Context, in MessagesRequest, cfg ai.Config) (*sse.Decoder[StreamEvent], error) {
	body, err := buildRequest(in, true)
	if err != nil {
		return nil, err
	}
	req, err := request(cfg, in, body)
	if err != nil {
		return nil, err
	}
	req.Headers["Accept"] = "text/event-stream"

	resp, err := utils.DoRaw(ctx, cfg.Client(), req)
	if err != nil {
		return nil, err
	}
	dec, err := sse.DecodeResponse[StreamEvent](resp, sse.WithContext(ctx))
	if err != nil {
		utils.CloseWithLog(resp.Body)
		return nil, fmt.Errorf("anthropic: stream: %w", err)
	}
	return dec, nil
}
