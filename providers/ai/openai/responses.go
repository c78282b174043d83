package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/HamzaKV/ai-sdk/core/parse"
	"github.com/HamzaKV/ai-sdk/core/sse"
	"github.com/HamzaKV/ai-sdk/internal/utils"
	"github.com/HamzaKV/ai-sdk/providers/ai"
	"github.com/HamzaKV/ai-sdk/providers/tool"
)

// ResponseRequest is the input of text.create_response and
// text.stream_response.
type ResponseRequest struct {
	Model              string          `json:"model"`
	Input              json.RawMessage `json:"input,omitempty"`
	Instructions       string          `json:"instructions,omitempty"`
	PreviousResponseID string          `json:"previous_response_id,omitempty"`
	MaxOutputTokens    int             `json:"max_output_tokens,omitempty"`
	Temperature        *float64        `json:"temperature,omitempty"`
	TopP               *float64        `json:"top_p,omitempty"`
	Store              *bool           `json:"store,omitempty"`
	Metadata           map[string]any  `json:"metadata,omitempty"`
	ToolChoice         any             `json:"tool_choice,omitempty"`
	Reasoning          *Reasoning      `json:"reasoning,omitempty"`
	User               string          `json:"user,omitempty"`

	// Tools are sent as function tools and run locally when the model calls
	// them.
	Tools *tool.Set `json:"-"`
	// BuiltinTools are passed through untouched, e.g. {"type": "web_search"}.
	BuiltinTools []map[string]any `json:"-"`
	// StructuredOutput asks for JSON output matching a schema.
	StructuredOutput *StructuredOutput `json:"-"`
}

// Reasoning configures reasoning models.
type Reasoning struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// StructuredOutput describes the JSON schema the output must follow.
type StructuredOutput struct {
	Name   string
	Schema map[string]any
	Strict bool
}

// TextInput returns a request input holding a single user message.
func TextInput(text string) json.RawMessage {
	raw, _ := json.Marshal(text)
	return raw
}

// Response is a stored model response.
type Response struct {
	ID         string         `json:"id"`
	Object     string         `json:"object"`
	CreatedAt  int64          `json:"created_at"`
	Status     string         `json:"status"`
	Model      string         `json:"model"`
	Output     []OutputItem   `json:"output"`
	OutputText string         `json:"output_text,omitempty"`
	Usage      *ResponseUsage `json:"usage,omitempty"`
	Error      *ResponseError `json:"error,omitempty"`

	// Parsed holds OutputText decoded as JSON when it is JSON.
	Parsed json.RawMessage `json:"parsed,omitempty"`
}

// OutputItem is one element of Response.Output.
type OutputItem struct {
	ID        string          `json:"id,omitempty"`
	Type      string          `json:"type"`
	Role      string          `json:"role,omitempty"`
	Status    string          `json:"status,omitempty"`
	Content   []OutputContent `json:"content,omitempty"`
	CallID    string          `json:"call_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments string          `json:"arguments,omitempty"`

	// Result is set on function_call items once the matching tool ran.
	Result string `json:"result,omitempty"`
	// ResultError is set instead of Result when the tool failed.
	ResultError string `json:"result_error,omitempty"`
}

// OutputContent is a content part of a message output item.
type OutputContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ResponseUsage reports token usage.
type ResponseUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ResponseError is set on failed responses.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Text returns OutputText, or the concatenated output_text parts when the API
// left it out.
func (r *Response) Text() string {
	if r.OutputText != "" {
		return r.OutputText
	}
	var text string
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				text += c.Text
			}
		}
	}
	return text
}

// FunctionCalls returns the function_call output items.
func (r *Response) FunctionCalls() []OutputItem {
	var calls []OutputItem
	for _, item := range r.Output {
		if item.Type == "function_call" {
			calls = append(calls, item)
		}
	}
	return calls
}

// DecodeParsed decodes the structured output of r into T.
func DecodeParsed[T any](r *Response) (T, error) {
	if len(r.Parsed) == 0 {
		return parse.As[T](r.Text())
	}
	return parse.As[T](string(r.Parsed))
}

// ResponseEvent is one event of a streamed response.
type ResponseEvent struct {
	Type           string          `json:"type"`
	SequenceNumber int             `json:"sequence_number,omitempty"`
	ItemID         string          `json:"item_id,omitempty"`
	OutputIndex    int             `json:"output_index,omitempty"`
	ContentIndex   int             `json:"content_index,omitempty"`
	Delta          string          `json:"delta,omitempty"`
	Text           string          `json:"text,omitempty"`
	Item           *OutputItem     `json:"item,omitempty"`
	Response       *Response       `json:"response,omitempty"`
	Error          *ResponseError  `json:"error,omitempty"`
}

// InputItemList is the result of text.list_input_items.
type InputItemList struct {
	Object  string            `json:"object"`
	Data    []json.RawMessage `json:"data"`
	FirstID string            `json:"first_id"`
	LastID  string            `json:"last_id"`
	HasMore bool              `json:"has_more"`
}

// DeletedResponse is the result of text.delete_response.
type DeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type responseBody struct {
	ResponseRequest
	Stream bool             `json:"stream,omitempty"`
	Tools  []map[string]any `json:"tools,omitempty"`
	Text   *textConfig      `json:"text,omitempty"`
}

type textConfig struct {
	Format map[string]any `json:"format"`
}

func buildResponseBody(in ResponseRequest, stream bool) (responseBody, error) {
	if in.Model == "" {
		return responseBody{}, errors.New("openai: model is required")
	}
	body := responseBody{ResponseRequest: in, Stream: stream}
	for _, t := range in.Tools.All() {
		body.Tools = append(body.Tools, map[string]any{
			"type":        "function",
			"name":        t.Name,
			"description": t.Description,
			"parameters":  t.Parameters,
			"strict":      t.Strict,
		})
	}
	body.Tools = append(body.Tools, in.BuiltinTools...)

	if so := in.StructuredOutput; so != nil {
		name := so.Name
		if name == "" {
			name = "output"
		}
		body.Text = &textConfig{Format: map[string]any{
			"type":   "json_schema",
			"name":   name,
			"schema": so.Schema,
			"strict": so.Strict,
		}}
	}
	return body, nil
}

func createResponse(ctx context.Context, in ResponseRequest, cfg ai.Config) (*Response, error) {
	body, err := buildResponseBody(in, false)
	if err != nil {
		return nil, err
	}
	resp, err := doJSON[Response](ctx, cfg, http.MethodPost, "/responses", body)
	if err != nil {
		return nil, err
	}

	if in.Tools.Len() > 0 {
		runFunctionCalls(ctx, in.Tools, resp)
	}
	if text := resp.Text(); parse.IsJSON(text) {
		if repaired, err := parse.Repair(text); err == nil {
			resp.Parsed = json.RawMessage(repaired)
		}
	}
	return resp, nil
}

// runFunctionCalls executes every function_call item and records the result
// on the item. A failing tool does not fail the response.
func runFunctionCalls(ctx context.Context, tools *tool.Set, resp *Response) {
	for i := range resp.Output {
		item := &resp.Output[i]
		if item.Type != "function_call" {
			continue
		}
		out, err := tools.Execute(ctx, item.Name, item.Arguments)
		if err != nil {
			item.ResultError = err.Error()
			continue
		}
		item.Result = out
	}
}

func streamResponse(ctx context.Context, in ResponseRequest, cfg ai.Config) (*sse.Decoder[ResponseEvent], error) {
	body, err := buildResponseBody(in, true)
	if err != nil {
		return nil, err
	}
	req, err := request(cfg, http.MethodPost, "/responses", body)
	if err != nil {
		return nil, err
	}
	req.Headers["Accept"] = "text/event-stream"

	resp, err := utils.DoRaw(ctx, cfg.Client(), req)
	if err != nil {
		return nil, err
	}
	dec, err := sse.DecodeResponse[ResponseEvent](resp, sse.WithContext(ctx))
	if err != nil {
		utils.CloseWithLog(resp.Body)
		return nil, fmt.Errorf("openai: stream response: %w", err)
	}
	return dec, nil
}

func getResponse(ctx context.Context, id string, cfg ai.Config) (*Response, error) {
	if id == "" {
		return nil, errors.New("openai: response id is required")
	}
	return doJSON[Response](ctx, cfg, http.MethodGet, responsePath(id, ""), nil)
}

func deleteResponse(ctx context.Context, id string, cfg ai.Config) (*DeletedResponse, error) {
	if id == "" {
		return nil, errors.New("openai: response id is required")
	}
	return doJSON[DeletedResponse](ctx, cfg, http.MethodDelete, responsePath(id, ""), nil)
}

func listInputItems(ctx context.Context, id string, cfg ai.Config) (*InputItemList, error) {
	if id == "" {
		return nil, errors.New("openai: response id is required")
	}
	return doJSON[InputItemList](ctx, cfg, http.MethodGet, responsePath(id, "/input_items"), nil)
}
