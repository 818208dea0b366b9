// Package mfa is the HTTP module for TOTP multi-factor enrollment. It wires
// the authgate middleware in front of two JSON endpoints, GET /qr for setup
// initiation and POST / for confirmation, and maps the enrollment error
// taxonomy onto HTTP statuses (409 conflict, 400 client errors, 500 for
// infrastructure failures).
package mfa
