package internaldefs

import (
	"github.com/MrEthical07/memauth"
)

// CounterDef names one memauth counter for export.
type CounterDef struct {
	ID   memauth.MetricID
	Name string
	Help string
}

// HistogramDef names one memauth histogram for export.
type HistogramDef struct {
	ID   memauth.MetricID
	Name string
	Help string
}

// SessionsGaugeName is the gauge reporting the current session map size.
const (
	SessionsGaugeName = "memauth_sessions"
	SessionsGaugeHelp = "Sessions currently stored, including expired ones not yet swept."
)

// CounterDefs lists every exported counter in rendering order.
var CounterDefs = []CounterDef{
	{ID: memauth.MetricUserCreated, Name: "memauth_user_created_total", Help: "Users created."},
	{ID: memauth.MetricUserDuplicate, Name: "memauth_user_duplicate_total", Help: "User creations rejected because the name was taken."},
	{ID: memauth.MetricUserDeleted, Name: "memauth_user_deleted_total", Help: "Users deleted."},
	{ID: memauth.MetricRoleCreated, Name: "memauth_role_created_total", Help: "Roles created."},
	{ID: memauth.MetricRoleDuplicate, Name: "memauth_role_duplicate_total", Help: "Role creations rejected because the name was taken."},
	{ID: memauth.MetricRoleDeleted, Name: "memauth_role_deleted_total", Help: "Roles deleted."},
	{ID: memauth.MetricRoleAssigned, Name: "memauth_role_assigned_total", Help: "Successful role grants."},
	{ID: memauth.MetricAuthSuccess, Name: "memauth_auth_success_total", Help: "Authentications that issued a token."},
	{ID: memauth.MetricAuthFailure, Name: "memauth_auth_failure_total", Help: "Authentications rejected for unknown user or wrong password."},
	{ID: memauth.MetricTokenInvalidated, Name: "memauth_token_invalidated_total", Help: "Tokens removed by Invalidate."},
	{ID: memauth.MetricTokenRejectedInvalid, Name: "memauth_token_rejected_invalid_total", Help: "Token reads that found no session."},
	{ID: memauth.MetricTokenRejectedExpired, Name: "memauth_token_rejected_expired_total", Help: "Token reads that found an expired session."},
	{ID: memauth.MetricSweepRun, Name: "memauth_sweep_run_total", Help: "Resize-triggered sweeps."},
	{ID: memauth.MetricSweepEvicted, Name: "memauth_sweep_evicted_total", Help: "Expired sessions removed by sweeps."},
	{ID: memauth.MetricSessionsRevoked, Name: "memauth_sessions_revoked_total", Help: "Sessions removed because their user was deleted."},
	{ID: memauth.MetricInternalError, Name: "memauth_internal_error_total", Help: "Operations that ended in an internal error."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: memauth.MetricAuthenticateLatency, Name: "memauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the upper bounds, in seconds, of the core histogram buckets.
var HistogramBounds = []string{
	"0.001",
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds rendered for use in metric names.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
