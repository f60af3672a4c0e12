package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrRateLimited marks quota and rate-limit conditions so callers can show a
// "try again later" message instead of raw error text.
var ErrRateLimited = errors.New("rate limited")

// statusError converts a non-200 API response into an error, classifying
// rate-limit/quota conditions and extracting a human-readable message.
func statusError(providerName string, statusCode int, body []byte) error {
	msg := parseErrorBody(body)

	switch statusCode {
	case 429, 529:
		if msg == "" {
			msg = "too many requests"
		}
		return fmt.Errorf("%s: %w: %s", providerName, ErrRateLimited, msg)
	}

	// Some providers report exhausted quota with a 4xx and a typed body
	// rather than a 429.
	if strings.Contains(msg, "quota") || strings.Contains(msg, "insufficient_quota") {
		return fmt.Errorf("%s: %w: %s", providerName, ErrRateLimited, msg)
	}

	if msg == "" {
		s := string(body)
		if len(s) > 200 {
			s = s[:200] + "..."
		}
		msg = s
	}

	switch statusCode {
	case 401:
		return fmt.Errorf("%s: authentication failed — check your API key", providerName)
	case 404:
		return fmt.Errorf("%s: model or endpoint not found", providerName)
	case 500, 502, 503:
		return fmt.Errorf("%s: service temporarily unavailable (HTTP %d)", providerName, statusCode)
	}
	return fmt.Errorf("%s: HTTP %d: %s", providerName, statusCode, msg)
}

func parseErrorBody(body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) != nil {
		return ""
	}
	msg := errResp.Error.Message
	if msg == "" {
		msg = errResp.Message
	}
	if errResp.Error.Type != "" {
		msg = strings.TrimSpace(msg + " " + errResp.Error.Type)
	}
	return msg
}

// isRetryable reports whether a failed call is worth one more attempt.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"HTTP 5", "temporarily unavailable", "connection refused", "timeout", "deadline exceeded", "EOF", "reset by peer"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
