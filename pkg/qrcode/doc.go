// Package qrcode renders strings, typically otpauth:// provisioning URIs, as
// QR code PNGs or base64 data URIs for embedding in API responses and HTML.
package qrcode
