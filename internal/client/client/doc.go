// Package client is the request pipeline every domain service talks to the
// remote API through.
//
// # Overview
//
// A Pipeline is built once at start-up and injected. Before each request it
// asks its TokenSource for the current session and attaches
// "Authorization: Bearer <token>" only for an authenticated session; an
// offline-trusted or empty session sends no header. Responses use the
// {success, message, data} envelope (see Envelope); bare payloads are
// accepted as data.
//
// # Error Handling
//
// Failures fall into two classes that callers tell apart with errors.Is:
//
//   - ErrUnavailable (*NetworkError): no response was received. Read paths
//     may substitute cached data.
//   - *ResponseError: the server answered with an error status. Its Message
//     comes from the envelope when present. 401/403 also match
//     ErrUnauthorized. These are never masked by cached data.
//
// The pipeline logs 401s but never retries or logs out on its own.
package client
