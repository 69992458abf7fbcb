package external

import (
	"errors"
	"fmt"
	"strings"
)

// Reason is why an upstream call produced no completion.
type Reason int

const (
	ReasonConfigMissing Reason = iota
	ReasonTransport
	ReasonRejected
)

// String returns the reason name used in logs and telemetry.
func (r Reason) String() string {
	switch r {
	case ReasonConfigMissing:
		return "config_missing"
	case ReasonTransport:
		return "transport_error"
	case ReasonRejected:
		return "upstream_rejected"
	}
	return "unknown"
}

// CallError is a failed upstream call.
type CallError struct {
	Reason     Reason
	StatusCode int    // ReasonRejected only
	Body       string // ReasonRejected only
	Err        error  // ReasonTransport only
}

func (e *CallError) Error() string {
	switch e.Reason {
	case ReasonConfigMissing:
		return "Azure grading config missing (AZURE_OPENAI_ENDPOINT, AZURE_DEPLOYMENT, AZURE_OPENAI_API_KEY)"
	case ReasonRejected:
		return fmt.Sprintf("Azure call failed: %d %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("Azure call failed: %v", e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// contentFilterMarkers identify a refusal by the upstream's content policy.
var contentFilterMarkers = []string{"content_filter", "responsibleaipolicyviolation"}

// IsContentFiltered reports whether err is a content-policy refusal.
func IsContentFiltered(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	for _, marker := range contentFilterMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// IsConfigMissing reports whether err is a missing-configuration failure.
func IsConfigMissing(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Reason == ReasonConfigMissing
}

// ReasonOf returns the failure reason, or ReasonTransport for foreign errors.
func ReasonOf(err error) Reason {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ReasonTransport
}

// FailureKind is the classification the gateway pipeline acts on.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureConfigMissing
	FailureTransport
	FailureRejected
	FailureContentFiltered
)

// String returns the failure name used in logs and telemetry.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureConfigMissing:
		return "config_missing"
	case FailureTransport:
		return "transport_error"
	case FailureRejected:
		return "upstream_rejected"
	case FailureContentFiltered:
		return "content_filtered"
	}
	return "unknown"
}

// Classify maps an upstream call error onto a FailureKind. Content-policy
// refusals are recognized by marker text in the upstream error body.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	switch ReasonOf(err) {
	case ReasonConfigMissing:
		return FailureConfigMissing
	case ReasonRejected:
		if IsContentFiltered(err) {
			return FailureContentFiltered
		}
		return FailureRejected
	}
	return FailureTransport
}
