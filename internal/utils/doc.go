// Package utils holds the HTTP transport shared by the provider packages and a
// few string helpers.
//
// [Do], [DoJSON] and [DoRaw] perform one request with a JSON body, headers and
// a timeout. Non-2xx responses become [*APIError]. [DoRaw] leaves the body open
// for SSE decoding and keeps the timeout armed until the body is closed.
package utils
