// Package api is the HTTP client for the marketplace listing endpoints.
//
// Requests go through resty with the auth cookie, user agent, and a per-request
// X-Request-ID. Responses are either the stored listing ({_id, ...}) or a
// failure envelope ({success: false, message}); failures surface the server
// message wrapped in services.ErrSubmission. ValidatePayload checks an
// outgoing body against the embedded listing JSON schema before it is sent.
package api
