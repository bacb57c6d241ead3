// Package qr renders wallet addresses as QR code images.
package qr

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered QR width in pixels.
const DefaultSize = 400

// PNG encodes content as a QR code PNG of size×size pixels.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return code.PNG(size)
}
