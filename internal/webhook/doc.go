// Package webhook implements the GitHub webhook ingestion gate with
// HMAC-SHA256 verification.
//
// The gate decides whether an inbound request is trusted and well-formed
// before any event handling occurs. Everything downstream of a validated
// delivery is the event router's responsibility.
//
// # Security Model
//
// - HMAC-SHA256 signatures verified using crypto/subtle (constant-time comparison)
// - Signature verified over the raw body bytes, strictly before JSON parsing
// - Body size limits enforced to prevent DoS attacks
// - No signature details leaked in error responses (always a generic 401,
//   whether the header is missing, malformed, mismatched, or the secret is unset)
// - Request logging excludes payload content
// - Secret provided via environment at startup (never hardcoded, never mutated)
//
// # Request Flow
//
//  1. HTTP POST arrives at the configured path (anything else is 405)
//  2. Body size checked (reject with 413 if too large)
//  3. X-Hub-Signature-256, X-GitHub-Event, X-GitHub-Delivery extracted
//     (absent headers are treated as empty strings)
//  4. HMAC-SHA256 computed over the raw request body
//  5. Constant-time comparison of signatures (reject with 401 if mismatch)
//  6. Body parsed as a loose JSON envelope (generic 500 on parse failure)
//  7. Delivery dispatched to the event router and awaited; no fire-and-forget
//  8. 200 returned echoing event type and delivery id
//
// # Error Responses
//
// - 405 Method Not Allowed: non-POST request (signature not checked)
// - 401 Unauthorized: invalid or missing signature (no details)
// - 413 Payload Too Large: body exceeds max_body_size
// - 500 Internal Server Error: parse or dispatch failure (generic message only)
//
// Each request is handled independently; there is no cross-request state, no
// retry, and no deduplication by delivery id. Replay resistance is
// deliberately not provided.
package webhook
