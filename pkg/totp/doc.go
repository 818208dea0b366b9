// Package totp implements the cryptographic core of TOTP multi-factor
// enrollment: shared secret generation, provisioning URI construction for
// authenticator apps, and time-based code verification per RFC 4226/6238.
//
// The package is deliberately free of storage and transport concerns. A
// service generates a secret with GenerateSecret, shows the user the URI from
// ProvisioningURI (usually as a QR code), then proves possession by checking
// the first code the user submits:
//
//	secret, _ := totp.GenerateSecret(totp.DefaultSecretLength)
//	uri, _ := totp.ProvisioningURI(totp.Params{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "Acme",
//	})
//	ok, _ := totp.Verify(secret, submittedCode, time.Now())
//
// Verification parameters beyond the RFC defaults (SHA256/SHA512, more
// digits, different periods, a wider clock-skew window) are expressed through
// CodePolicy. Submitted codes are compared in constant time.
//
// aes256.go provides AES-256-GCM helpers for encrypting secrets before they
// reach a datastore; key material is always supplied by the caller.
//
// Errors are package-level sentinels (ErrInvalidSecret, ErrInvalidCode,
// ErrInsufficientEntropy, ...) suitable for errors.Is checks.
package totp
