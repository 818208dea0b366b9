package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"fmt"
	"hash"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultSecretLength = 20     // 160-bit secrets per RFC 4226 recommendation
	DefaultDigits       = 6      // Standard 6-digit codes
	DefaultPeriod       = 30     // 30-second time step (RFC 6238 standard)
	DefaultSkew         = 1      // Accept codes one step before/after the reference step
	AlgorithmSHA1       = "SHA1" // RFC 6238 default, universally supported by authenticator apps
	AlgorithmSHA256     = "SHA256"
	AlgorithmSHA512     = "SHA512"
)

// SecretKeyRegex matches the external Base32 secret encoding: A-Z, 2-7, optional padding.
var SecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Params describes the provisioning URI for a single enrollment.
type Params struct {
	Secret      string // Base32-encoded shared secret (required)
	AccountName string // User-facing account label, typically an email (required)
	Issuer      string // Service name shown in authenticator apps (required)
	Algorithm   string // HMAC algorithm (optional, defaults to SHA1)
	Digits      int    // Code length (optional, defaults to 6)
	Period      int    // Time step in seconds (optional, defaults to 30)
}

// Validate ensures all required provisioning parameters are present and well-formed.
func (p Params) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !SecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	if p.Algorithm != "" {
		if _, err := hashFunc(p.Algorithm); err != nil {
			return err
		}
	}
	return nil
}

// WithDefaults returns a copy with RFC 6238 defaults applied to zero-valued fields.
func (p Params) WithDefaults() Params {
	if p.Algorithm == "" {
		p.Algorithm = AlgorithmSHA1
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// GenerateSecret produces a new Base32-encoded shared secret of lengthBytes
// random bytes. A non-positive length falls back to DefaultSecretLength.
// The only failure mode is an unavailable system entropy source, which is
// fatal and must be surfaced as a server error rather than retried.
func GenerateSecret(lengthBytes int) (string, error) {
	if lengthBytes <= 0 {
		lengthBytes = DefaultSecretLength
	}
	secret := make([]byte, lengthBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrInsufficientEntropy, err)
	}
	return b32.EncodeToString(secret), nil
}

// ProvisioningURI builds the otpauth:// URI authenticator apps import.
// The format follows the Key Uri Format specification:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
//
// Issuer and account name are URL-escaped so free-text metadata cannot
// produce a malformed or injected URI. Identical inputs always yield an
// identical string.
func ProvisioningURI(params Params) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	params = params.WithDefaults()

	label := fmt.Sprintf("%s:%s",
		url.PathEscape(params.Issuer),
		url.PathEscape(params.AccountName),
	)

	query := url.Values{}
	query.Set("secret", params.Secret)
	query.Set("issuer", params.Issuer)
	query.Set("algorithm", params.Algorithm)
	query.Set("digits", fmt.Sprintf("%d", params.Digits))
	query.Set("period", fmt.Sprintf("%d", params.Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// CodePolicy captures the code-generation parameters a verifier and its
// enrolled authenticators have agreed on.
type CodePolicy struct {
	Algorithm string // HMAC algorithm (defaults to SHA1)
	Digits    int    // Code length (defaults to 6)
	Period    int    // Time step in seconds (defaults to 30)
	Skew      int    // Accepted steps either side of the reference step (defaults to 1)
}

// DefaultCodePolicy returns the RFC 6238 standard policy with a one-step
// tolerance window.
func DefaultCodePolicy() CodePolicy {
	return CodePolicy{
		Algorithm: AlgorithmSHA1,
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
		Skew:      DefaultSkew,
	}
}

func (p CodePolicy) withDefaults() CodePolicy {
	if p.Algorithm == "" {
		p.Algorithm = AlgorithmSHA1
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	if p.Skew == 0 {
		p.Skew = DefaultSkew
	}
	return p
}

// Verify reports whether code is the TOTP value for secret at the time step
// containing at, or within the policy's skew window to absorb clock drift.
//
// A well-formed code that simply does not match returns (false, nil). Only
// malformed input produces an error: ErrInvalidSecret for a secret that is
// not valid Base32, ErrInvalidCode for a code of the wrong shape. Candidate
// codes are compared in constant time so verification latency leaks nothing
// about how many leading digits matched.
func (p CodePolicy) Verify(secret, code string, at time.Time) (bool, error) {
	p = p.withDefaults()

	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !isNumeric(code) || len(code) != p.Digits {
		return false, ErrInvalidCode
	}

	h, err := hashFunc(p.Algorithm)
	if err != nil {
		return false, err
	}

	counter := at.Unix() / int64(p.Period)

	// Compare against every candidate in the window rather than returning on
	// the first match, keeping the comparison count input-independent.
	match := 0
	for i := -p.Skew; i <= p.Skew; i++ {
		candidate := formatCode(hotp(h, key, counter+int64(i), p.Digits), p.Digits)
		match |= subtle.ConstantTimeCompare([]byte(candidate), []byte(code))
	}

	return match == 1, nil
}

// Code returns the TOTP value for secret at the time step containing at.
// Intended for test fixtures and client-side tooling; the server never needs
// to hand codes out.
func (p CodePolicy) Code(secret string, at time.Time) (string, error) {
	p = p.withDefaults()

	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	h, err := hashFunc(p.Algorithm)
	if err != nil {
		return "", err
	}

	counter := at.Unix() / int64(p.Period)
	return formatCode(hotp(h, key, counter, p.Digits), p.Digits), nil
}

// Verify validates code against secret at time at using the default policy.
func Verify(secret, code string, at time.Time) (bool, error) {
	return DefaultCodePolicy().Verify(secret, code, at)
}

// GenerateCode returns the default-policy TOTP value for secret at time at.
func GenerateCode(secret string, at time.Time) (string, error) {
	return DefaultCodePolicy().Code(secret, at)
}

// hotp implements the RFC 4226 HMAC-based one-time password algorithm,
// reducing an HMAC over the big-endian counter to a numeric code via dynamic
// truncation.
func hotp(newHash func() hash.Hash, key []byte, counter int64, digits int) int {
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := hmac.New(newHash, key)
	mac.Write(counterBytes)
	sum := mac.Sum(nil)

	// Dynamic truncation: low 4 bits of the last byte pick the offset, the
	// 31-bit value at that offset becomes the code.
	offset := sum[len(sum)-1] & 0x0f
	value := (int(sum[offset]&0x7f) << 24) |
		(int(sum[offset+1]&0xff) << 16) |
		(int(sum[offset+2]&0xff) << 8) |
		int(sum[offset+3]&0xff)

	return value % int(math.Pow10(digits))
}

func hashFunc(algorithm string) (func() hash.Hash, error) {
	switch strings.ToUpper(algorithm) {
	case AlgorithmSHA1:
		return sha1.New, nil
	case AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !SecretKeyRegex.MatchString(secret) {
		return nil, ErrInvalidSecret
	}
	key, err := b32.DecodeString(strings.TrimRight(secret, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}

func formatCode(value, digits int) string {
	return fmt.Sprintf("%0*d", digits, value)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
