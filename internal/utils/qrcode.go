package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// OrderQRPayload is the text encoded in an order's QR code.
func OrderQRPayload(frontendURL, orderID string) string {
	return fmt.Sprintf("%s/orders/%s", frontendURL, orderID)
}

// GenerateOrderQR returns a 256px PNG QR code pointing at the order page.
func GenerateOrderQR(frontendURL, orderID string) ([]byte, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is empty")
	}
	return qrcode.Encode(OrderQRPayload(frontendURL, orderID), qrcode.Medium, 256)
}

// QRDataURL wraps a PNG so it can be used directly in <img src="...">.
func QRDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
