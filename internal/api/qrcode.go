package api

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// TrackingQRGenerator encodes a link to the order's tracking page as PNG.
type TrackingQRGenerator struct {
	BaseURL string
}

func (g TrackingQRGenerator) Generate(orderID string) ([]byte, error) {
	link := fmt.Sprintf("%s/track?order=%s", strings.TrimRight(g.BaseURL, "/"), url.QueryEscape(orderID))
	return qrcode.Encode(link, qrcode.Medium, 256)
}
