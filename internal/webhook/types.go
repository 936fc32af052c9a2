package webhook

import (
	"context"

	"github.com/hookgate/hookgate/internal/event"
	"github.com/hookgate/hookgate/internal/journal"
)

// EventDispatcher is the collaborator that receives validated deliveries.
// The gate never interprets event-type-specific fields; it hands over the
// envelope and the open event-type tag and waits for completion.
type EventDispatcher interface {
	Dispatch(ctx context.Context, eventType string, env *event.Envelope) error
}

// DeliveryRecorder persists gate outcomes for later inspection.
// Recording is diagnostic only: failures never change the HTTP outcome and
// recorded rows are never used for deduplication.
type DeliveryRecorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Config holds the gate configuration. The secret is fixed at construction;
// there is no runtime mutation.
type Config struct {
	// Listen is the address the HTTP server binds.
	Listen string

	// Path is the URL path for the webhook endpoint.
	Path string

	// Secret is the HMAC shared secret. When empty every delivery is
	// rejected (fail-closed).
	Secret string

	// SignatureHeader is the HTTP header containing the HMAC signature.
	SignatureHeader string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64

	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string
}

// ProcessedResponse is the JSON response for successfully handled deliveries.
type ProcessedResponse struct {
	Message  string `json:"message"`
	Event    string `json:"event"`
	Delivery string `json:"delivery"`
}

// ErrorResponse is the JSON response for rejected or failed deliveries.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Header names consumed from each delivery. Absent headers are treated as
// empty strings.
const (
	DefaultSignatureHeader = "X-Hub-Signature-256"
	EventHeader            = "X-GitHub-Event"
	DeliveryHeader         = "X-GitHub-Delivery"
)

// DefaultMaxBodySize caps request bodies when no limit is configured.
const DefaultMaxBodySize = 1048576 // 1 MB
