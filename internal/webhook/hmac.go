package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// verifySignature verifies an HMAC-SHA256 signature against the request body.
//
// The body must be the exact bytes received on the wire: re-serialization can
// change byte-for-byte content and invalidate the signature.
//
// This function uses constant-time comparison (crypto/subtle) to prevent
// timing attacks. It fails closed: an empty signature or an empty secret is a
// verification failure, not a distinct error. Supported formats:
//   - "sha256=<hex>" (GitHub X-Hub-Signature-256)
//   - "<hex>" (plain hex)
//
// Returns nil if the signature is valid, error otherwise.
// All errors are generic to prevent information leakage.
func verifySignature(body []byte, signature, secret string) error {
	if secret == "" {
		return fmt.Errorf("signature verification failed")
	}

	if signature == "" {
		return fmt.Errorf("signature verification failed")
	}

	// Compute HMAC-SHA256 of request body
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedMAC := mac.Sum(nil)

	actualMAC, err := parseSignature(signature)
	if err != nil {
		// Generic error - don't leak format details
		return fmt.Errorf("signature verification failed")
	}

	// ConstantTimeCompare returns 0 for mismatched lengths without leaking
	// where the first differing byte is.
	if subtle.ConstantTimeCompare(expectedMAC, actualMAC) != 1 {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// parseSignature extracts and decodes the HMAC signature from the header value.
func parseSignature(signature string) ([]byte, error) {
	// Handle GitHub-style "sha256=<hex>" format
	if strings.HasPrefix(signature, "sha256=") {
		hexSig := strings.TrimPrefix(signature, "sha256=")
		return hex.DecodeString(hexSig)
	}

	// Handle plain hex format
	return hex.DecodeString(signature)
}

// computeSignature computes the hex-encoded HMAC-SHA256 signature for a body.
// Used for testing and validation.
func computeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// formatSignatureHeader formats a hex signature in GitHub's
// X-Hub-Signature-256 format.
func formatSignatureHeader(hexSig string) string {
	return "sha256=" + hexSig
}
