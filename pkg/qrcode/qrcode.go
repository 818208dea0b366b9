package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when the content is empty or whitespace.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrEncodingFailed wraps failures from the underlying QR encoder.
	ErrEncodingFailed = errors.New("failed to encode QR code")
)

// DefaultSize is the image edge length in pixels when none is specified.
const DefaultSize = 256

// PNG renders content as a QR code PNG. Medium error correction is enough
// for on-screen scanning; a non-positive size falls back to DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrEncodingFailed, err)
	}
	return png, nil
}

// DataURI renders content as a QR code and returns it as a data:image/png
// URI, ready to drop into an <img src="..."> attribute.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
