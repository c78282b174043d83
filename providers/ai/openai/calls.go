package openai

import (
	"context"

	"github.com/HamzaKV/ai-sdk/core/client"
	"github.com/HamzaKV/ai-sdk/core/sse"
)

// Embed runs embedding.embed through c.
func Embed(ctx context.Context, c *client.Client, in EmbedRequest) (*EmbedResponse, error) {
	return client.Call[*EmbedResponse](ctx, c, key(ModelEmbedding, CallEmbed), in)
}

// CreateResponse runs text.create_response through c.
func CreateResponse(ctx context.Context, c *client.Client, in ResponseRequest) (*Response, error) {
	return client.Call[*Response](ctx, c, key(ModelText, CallCreateResponse), in)
}

// StreamResponse runs text.stream_response through c. The caller closes the
// returned decoder.
func StreamResponse(ctx context.Context, c *client.Client, in ResponseRequest) (*sse.Decoder[ResponseEvent], error) {
	return client.Call[*sse.Decoder[ResponseEvent]](ctx, c, key(ModelText, CallStreamResponse), in)
}

// GetResponse runs text.get_response through c.
func GetResponse(ctx context.Context, c *client.Client, id string) (*Response, error) {
	return client.Call[*Response](ctx, c, key(ModelText, CallGetResponse), id)
}

// DeleteResponse runs text.delete_response through c.
func DeleteResponse(ctx context.Context, c *client.Client, id string) (*DeletedResponse, error) {
	return client.Call[*DeletedResponse](ctx, c, key(ModelText, CallDeleteResponse), id)
}

// ListInputItems runs text.list_input_items through c.
func ListInputItems(ctx context.Context, c *client.Client, id string) (*InputItemList, error) {
	return client.Call[*InputItemList](ctx, c, key(ModelText, CallListInputItems), id)
}

// CreateImage runs images.create through c.
func CreateImage(ctx context.Context, c *client.Client, in ImageRequest) (*ImageResponse, error) {
	return client.Call[*ImageResponse](ctx, c, key(ModelImages, CallCreateImage), in)
}

func key(model, call string) client.Key {
	return client.Key{Provider: Name, Model: model, Call: call}
}
