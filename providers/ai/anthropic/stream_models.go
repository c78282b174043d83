package anthropic

/*
	SSE STREAMING - WIRE TYPES

	The stream carries "event:" lines naming the event followed by "data:"
	lines with the JSON payload. Only data lines are decoded, so the Type
	field inside the payload discriminates events.

	Event lifecycle:
	  message_start → content_block_start → content_block_delta → content_block_stop →
	  message_delta → message_stop
*/

// StreamEvent is the envelope of every streamed event. Type decides which
// optional fields are set.
type StreamEvent struct {
	Type         string        `json:"type"`
	Message      *Message      `json:"message,omitempty"`       // message_start
	Index        int           `json:"index,omitempty"`         // content_block_*
	ContentBlock *ContentBlock `json:"content_block,omitempty"` // content_block_start
	Delta        *StreamDelta  `json:"delta,omitempty"`         // content_block_delta, message_delta
	Usage        *Usage        `json:"usage,omitempty"`         // message_delta
	Error        *StreamError  `json:"error,omitempty"`         // error
}

// StreamDelta carries incremental content. Type is "text_delta",
// "thinking_delta" or "input_json_delta"; message_delta events carry no type
// and set StopReason instead.
type StreamDelta struct {
	Type         string `json:"type,omitempty"`
	Text         string `json:"text,omitempty"`
	Thinking     string `json:"thinking,omitempty"`
	PartialJSON  string `json:"partial_json,omitempty"`
	StopReason   string `json:"stop_reason,omitempty"`
	StopSequence string `json:"stop_sequence,omitempty"`
}

// StreamError is the payload of an error event.
type StreamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TextDelta returns the text carried by a text_delta event.
func (e StreamEvent) TextDelta() string {
	if e.Type != "content_block_delta" || e.Delta == nil || e.Delta.Type != "text_delta" {
		return ""
	}
	return e.Delta.Text
}
