// Package ai defines how a provider is described and how its configuration is
// bound into every call.
//
// A [Definition] names a provider, carries its default [Config] and maps model
// names to call names to raw [CallFunc] values. [Definition.New] binds a
// configuration into each of them and returns an [Instance] whose calls only
// take a context and an input:
//
//	inst := openai.Definition.New(ai.Config{APIKey: key})
//	out, err := inst.Call(ctx, "embedding", "embed", openai.EmbedRequest{...})
//
// [Typed] adapts a strongly typed function into a [CallFunc]. Inputs may be
// passed as the declared type, a pointer to it, or raw JSON.
package ai
