package governance

import (
	"fmt"
	"net/http"

	"github.com/gestium/backend/internal/domain/shared"
)

// ErrUnknownResourceKind is returned when a resource kind outside the closed
// set reaches the usage counter. This is a configuration defect and is
// surfaced to the caller rather than being absorbed by the fail-open policy.
var ErrUnknownResourceKind = shared.NewDomainError("UNKNOWN_RESOURCE_KIND", "Unknown resource kind")

// Outcome classifies the result of a quota gate check
type Outcome string

const (
	// OutcomeAllowed means the create is within quota (or no limit applies)
	OutcomeAllowed Outcome = "allowed"

	// OutcomeAllowedDegraded means governance could not be evaluated and the
	// create was allowed under the fail-open policy. Tests and operators can
	// tell this apart from a clean allow; callers treat it as an allow.
	OutcomeAllowedDegraded Outcome = "allowed_degraded"

	// OutcomeDenied means the create must not proceed
	OutcomeDenied Outcome = "denied"
)

// DenyReason explains a denied decision
type DenyReason string

const (
	// DenyReasonLimitReached means current usage has met or exceeded the plan limit
	DenyReasonLimitReached DenyReason = "limit_reached"

	// DenyReasonSubscriptionExpired means the active subscription's end date has passed
	DenyReasonSubscriptionExpired DenyReason = "subscription_expired"
)

// Decision is the result of a quota gate check for a single create attempt.
// Current and Limit are populated for limit_reached denials so callers can
// render "12/10 used" style messages.
type Decision struct {
	Outcome Outcome      `json:"outcome"`
	Kind    ResourceKind `json:"kind"`
	Reason  DenyReason   `json:"reason,omitempty"`
	Current int64        `json:"current,omitempty"`
	Limit   int64        `json:"limit,omitempty"`
}

// IsAllowed returns true for both clean and degraded allows
func (d Decision) IsAllowed() bool {
	return d.Outcome == OutcomeAllowed || d.Outcome == OutcomeAllowedDegraded
}

// Allowed builds a clean allow decision
func Allowed(kind ResourceKind) Decision {
	return Decision{Outcome: OutcomeAllowed, Kind: kind}
}

// AllowedDegraded builds a fail-open allow decision
func AllowedDegraded(kind ResourceKind) Decision {
	return Decision{Outcome: OutcomeAllowedDegraded, Kind: kind}
}

// DeniedLimitReached builds a denial carrying the usage/limit pair
func DeniedLimitReached(kind ResourceKind, current, limit int64) Decision {
	return Decision{
		Outcome: OutcomeDenied,
		Kind:    kind,
		Reason:  DenyReasonLimitReached,
		Current: current,
		Limit:   limit,
	}
}

// DeniedSubscriptionExpired builds a denial for an expired subscription
func DeniedSubscriptionExpired(kind ResourceKind) Decision {
	return Decision{
		Outcome: OutcomeDenied,
		Kind:    kind,
		Reason:  DenyReasonSubscriptionExpired,
	}
}

// QuotaDeniedError adapts a denied decision into an error for call sites
// that propagate denials up the request path
type QuotaDeniedError struct {
	Decision Decision
}

// Error implements the error interface
func (e *QuotaDeniedError) Error() string {
	if e.Decision.Reason == DenyReasonSubscriptionExpired {
		return fmt.Sprintf("subscription expired: cannot create %s", e.Decision.Kind.DisplayName())
	}
	return fmt.Sprintf("quota limit reached for %s: %d/%d used",
		e.Decision.Kind.DisplayName(), e.Decision.Current, e.Decision.Limit)
}

// Code returns the machine-readable reason code
func (e *QuotaDeniedError) Code() string {
	return string(e.Decision.Reason)
}

// HTTPStatusCode returns the HTTP status for this denial
func (e *QuotaDeniedError) HTTPStatusCode() int {
	return http.StatusForbidden
}
