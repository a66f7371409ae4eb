package shared

// GuardResult is the outcome of a stateless workflow guard check. Reason is
// set only when the check is denied.
type GuardResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Allow returns a passing guard result
func Allow() GuardResult {
	return GuardResult{Allowed: true}
}

// Deny returns a failing guard result with a reason
func Deny(reason string) GuardResult {
	return GuardResult{Allowed: false, Reason: reason}
}
