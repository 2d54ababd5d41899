package pipeline

// MaxRetries bounds the validate/adjust loop. A candidate gets at most
// MaxRetries adjustment attempts before the session finalizes with whatever
// it has.
const MaxRetries = 2

// RouteAfterValidation decides the next step from the current state. The
// decision reads only the validation verdict and the retry counter:
//
//   - verdict passed: finalize with the compliant candidate
//   - verdict failed, retries remain: adjust and revalidate
//   - verdict failed, retries exhausted: finalize best-effort
//
// The counter only ever moves toward MaxRetries and no transition resets it,
// so the loop terminates in at most MaxRetries+1 validations.
func RouteAfterValidation(s SessionState) Status {
	if s.Validation != nil && s.Validation.Passed {
		return StatusFinalizing
	}
	if s.RetryCount < MaxRetries {
		return StatusAdjusting
	}
	return StatusFinalizing
}
