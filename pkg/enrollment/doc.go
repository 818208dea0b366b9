// Package enrollment coordinates TOTP multi-factor enrollment: issuing a
// shared secret with its provisioning URI, and atomically activating the
// credential once the caller proves possession with a correct initial code.
//
// The coordinator is stateless between the two steps. Setup returns the
// secret to the caller without persisting anything; Confirm trusts the
// client to echo that secret back, verifies the submitted code against it,
// and asks the credential Store to create the credential. The invariant of
// at most one active credential per (tenant, user) is enforced by the Store,
// whose conflict error the coordinator maps to ErrAlreadyEnrolled.
//
// There is no rate limiting or brute-force protection at this layer; if the
// service is exposed directly, put a limiter in front of Confirm.
package enrollment
