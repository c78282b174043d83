// Package sse implements the Server-Sent Events framing used by provider
// streams, in both directions.
//
// A [Decoder] pulls "data: <json>" frames from an io.Reader and yields typed
// values until the "[DONE]" sentinel or end of input. Malformed frames are
// logged at warn level, counted by [Decoder.Skipped] and skipped.
//
// [NewStream] runs a producer function once and exposes its frames as an
// io.ReadCloser. The producer writes through a [Writer]; a returned error or a
// panic becomes a final {"error": ...} frame, and every stream ends with
// exactly one "[DONE]" frame.
//
// [Deliver] pushes a stream into an http.ResponseWriter (or any [Sink]),
// flushing as it goes, or wraps it in an *http.Response when the destination
// cannot be written to.
//
// Wire format:
//
//	data: {"delta":"Hel"}
//
//	data: {"annotation":{"source":"web"}}
//
//	data: [DONE]
package sse
