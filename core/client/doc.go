// Package client is the call registry and gate chain in front of every
// provider call.
//
// A [Client] holds bound provider instances and an ordered list of
// [Middleware] gates. [Client.Invoke] snapshots the input into a
// [CallContext], runs the gates one after the other and only then calls the
// provider. A gate that returns false vetoes the call: the provider is never
// reached and the caller gets a [*VetoError], which matches
// [ErrStoppedByMiddleware] with errors.Is. Errors from the provider itself are
// returned as they are, so the two cases never mix.
//
//	c, err := client.New(
//	    client.WithProviders(openai.New()),
//	    client.WithMiddleware(client.Gate(func(call client.CallContext) bool {
//	        return call.Model != "images"
//	    })),
//	)
//	out, err := openai.Embed(ctx, c, openai.EmbedRequest{...})
//
// [Call] is the typed form of Invoke used by the provider packages.
package client
