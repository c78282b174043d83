package anthropic

import (
	"encoding/json"
	"time"

	"github.com/HamzaKV/ai-sdk/providers/tool"
)

/*
	MESSAGES API - REQUEST TYPES
*/

// MessagesRequest is the input of claude.messages and claude.stream.
type MessagesRequest struct {
	Model         string          `json:"model"`
	Messages      []InputMessage  `json:"messages"`
	System        json.RawMessage `json:"system,omitempty"` // String or []ContentBlock
	MaxTokens     int             `json:"max_tokens"`
	Temperature   *float64        `json:"temperature,omitempty"`
	TopP          *float64        `json:"top_p,omitempty"`
	TopK          *int            `json:"top_k,omitempty"`
	StopSequences []string        `json:"stop_sequences,omitempty"`
	ToolChoice    *ToolChoice     `json:"tool_choice,omitempty"`
	Metadata      *Metadata       `json:"metadata,omitempty"`
	Thinking      *ThinkingConfig `json:"thinking,omitempty"`

	// Tools are advertised to the model and run locally on tool_use blocks.
	Tools *tool.Set `json:"-"`
	// Betas are sent in the anthropic-beta header.
	Betas []string `json:"-"`
	// FetchTimeout overrides the configured timeout for this call.
	FetchTimeout time.Duration `json:"-"`
}

// ThinkingConfig controls extended thinking.
// Type is "adaptive" or "enabled"; BudgetTokens only applies to "enabled".
type ThinkingConfig struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens,omitempty"`
}

// InputMessage is a single conversation turn.
type InputMessage struct {
	Role    string         `json:"role"` // "user" or "assistant"
	Content []ContentBlock `json:"content"`
}

// UserText returns a user message holding a single text block.
func UserText(text string) InputMessage {
	return InputMessage{Role: "user", Content: []ContentBlock{{Type: "text", Text: text}}}
}

// ContentBlock is a discriminated union via Type:
//   - "text": Text
//   - "image", "document": Source
//   - "tool_use": ID, Name, Input
//   - "tool_result": ToolUseID, Content, IsError
//   - "thinking": Thinking, Signature
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Source    *Source         `json:"source,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	Signature string          `json:"signature,omitempty"`

	// Result is set on tool_use blocks of a response once the tool ran.
	Result string `json:"result,omitempty"`
	// ResultError is set instead of Result when the tool failed.
	ResultError string `json:"result_error,omitempty"`
}

// Source is a media source, inline base64 or a URL reference.
type Source struct {
	Type      string `json:"type"` // "base64" or "url"
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// ToolChoice controls which tool the model should use.
type ToolChoice struct {
	Type                   string `json:"type"` // "auto", "any", "tool", "none"
	Name                   string `json:"name,omitempty"`
	DisableParallelToolUse bool   `json:"disable_parallel_tool_use,omitempty"`
}

// Metadata contains optional request metadata.
type Metadata struct {
	UserID string `json:"user_id,omitempty"`
}

type wireTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type wireRequest struct {
	MessagesRequest
	Tools  []wireTool `json:"tools,omitempty"`
	Stream bool       `json:"stream,omitempty"`
}

/*
	MESSAGES API - RESPONSE TYPES
*/

// Message is the response of claude.messages.
type Message struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"` // "message"
	Role         string         `json:"role"` // "assistant"
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        Usage          `json:"usage"`
}

// Usage reports token consumption for a single request.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`
}

// Text returns the concatenated text blocks.
func (m *Message) Text() string {
	var text string
	for _, block := range m.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text
}

// ToolUses returns the tool_use blocks.
func (m *Message) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range m.Content {
		if block.Type == "tool_use" {
			uses = append(uses, block)
		}
	}
	return uses
}
