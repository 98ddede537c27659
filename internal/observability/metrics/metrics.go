// Package metrics emits the recruiter platform's StatsD counters and timings.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/navix1456/recruiter-platform/internal/observability/errors"
	"github.com/navix1456/recruiter-platform/internal/observability/statsd"
)

// Submission results.
const (
	ResultOK          = "ok"
	ResultDuplicate   = "duplicate"
	ResultInFlight    = "in_flight"
	ResultInvalid     = "invalid"
	ResultUploadError = "upload_error"
	ResultInsertError = "insert_error"
)

// SubmissionMetric captures the outcome of one application submission.
type SubmissionMetric struct {
	Result string
	// Compensated is true when a compensating remove was attempted.
	Compensated bool
	// CompensationErr is the remove failure, if any.
	CompensationErr error
	Duration        time.Duration
	Err             error
}

// EmitSubmission records submission.result, submission.duration and, when
// the compensating remove failed, submission.compensation_failed.
func EmitSubmission(sink statsd.Sink, in SubmissionMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"result":      in.Result,
		"compensated": strconv.FormatBool(in.Compensated),
	}
	if class := obserrors.Classify(in.Err); class != "" {
		tags["error_class"] = class
	}
	sink.Count("submission.result", 1, tags)
	if in.CompensationErr != nil {
		sink.Count("submission.compensation_failed", 1, map[string]string{
			"error_class": obserrors.Classify(in.CompensationErr),
		})
	}
	if in.Duration > 0 {
		sink.Timing("submission.duration", in.Duration, map[string]string{"result": in.Result})
	}
}

// Guard denial reasons.
const (
	DenyNoCookie      = "no_cookie"
	DenyNoSession     = "no_session"
	DenyExpired       = "expired"
	DenyIdentityError = "identity_error"
)

// EmitGuardDenied counts a protected request turned away by the session guard.
func EmitGuardDenied(sink statsd.Sink, reason string) {
	if sink == nil {
		return
	}
	sink.Count("guard.denied", 1, map[string]string{"reason": reason})
}

// EmitSessionChange counts sign-in and sign-out transitions.
func EmitSessionChange(sink statsd.Sink, signedIn bool, provider string) {
	if sink == nil {
		return
	}
	event := "signed_out"
	if signedIn {
		event = "signed_in"
	}
	tags := map[string]string{"event": event}
	if provider != "" {
		tags["provider"] = provider
	}
	sink.Count("session.change", 1, tags)
}
