// Package openai defines the OpenAI provider: embeddings, the Responses API
// (create, stream, get, delete, list input items) and image generation.
//
// [Definition] is bound with ai.Definition.New and registered with a client.
// [New] reads OPENAI_API_KEY and OPENAI_API_BASE_URL from the environment.
// The typed helpers ([Embed], [CreateResponse], ...) go through the client
// so every call passes its middleware.
package openai
