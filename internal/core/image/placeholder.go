package image

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const placeholderTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="1024">` +
	`<defs><linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">` +
	`<stop offset="0%%" stop-color="#f59e0b"/><stop offset="100%%" stop-color="#16a34a"/>` +
	`</linearGradient></defs>` +
	`<rect width="100%%" height="100%%" fill="url(#bg)"/>` +
	`<ellipse cx="512" cy="520" rx="300" ry="90" fill="#0f172a" opacity="0.2"/>` +
	`<circle cx="512" cy="460" r="250" fill="#f8fafc"/>` +
	`<circle cx="512" cy="460" r="200" fill="#fff"/>` +
	`<ellipse cx="512" cy="460" rx="170" ry="120" fill="%s" opacity="0.9"/>` +
	`<circle cx="445" cy="430" r="30" fill="%s" opacity="0.9"/>` +
	`<circle cx="565" cy="495" r="26" fill="%s" opacity="0.8"/>` +
	`<circle cx="520" cy="415" r="18" fill="#fde68a"/></svg>`

// Placeholder 依菜名與風格提示產生固定的 SVG data URI，不做任何 I/O
func Placeholder(name, styleHint string) string {
	tone := strings.ToLower(name + styleHint)

	sauce := "#f59e0b"
	if strings.Contains(tone, "tomato") || strings.Contains(tone, "pizza") {
		sauce = "#ef4444"
	}
	garnish := "#84cc16"
	if strings.Contains(tone, "salad") || strings.Contains(tone, "herb") {
		garnish = "#22c55e"
	}

	svg := fmt.Sprintf(placeholderTemplate, sauce, garnish, garnish)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
