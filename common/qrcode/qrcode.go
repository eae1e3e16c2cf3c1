package qrcode

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCodePngBytes generates a QR code as PNG bytes.
// Used for embedding sale folios in receipt PDFs.
func GenerateQRCodePngBytes(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("qr content cannot be empty")
	}
	if size <= 0 {
		size = 256
	}

	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	return pngBytes, nil
}

// GenerateQRCodeBase64 generates a QR code as a data URI usable directly in
// an <img> tag by the UI layer.
func GenerateQRCodeBase64(text string, size int) (string, error) {
	pngBytes, err := GenerateQRCodePngBytes(text, size)
	if err != nil {
		return "", err
	}
	base64Str := base64.StdEncoding.EncodeToString(pngBytes)
	return fmt.Sprintf("data:image/png;base64,%s", base64Str), nil
}
