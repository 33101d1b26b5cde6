package compose

import (
	"net/url"
	"strings"

	"gymdesk/routine-admin/internal/domain"
)

// DefaultChatBaseURL is the WhatsApp click-to-chat endpoint.
const DefaultChatBaseURL = "https://api.whatsapp.com"

// TimerPath is the public route prefix for the training timer page.
const TimerPath = "/training-timer"

// ChatURL builds baseURL/send?phone=<digits>&text=<message>. Spaces are
// encoded as %20, as chat clients expect.
func ChatURL(baseURL, phone, message string) string {
	if baseURL == "" {
		baseURL = DefaultChatBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/send?phone=" + digitsOnly(phone) + "&text=" + encodeComponent(message)
}

// TimerURL builds origin/training-timer/<routineID>/<day>?token=<token>.
func TimerURL(origin, routineID string, day domain.Weekday, token string) string {
	return strings.TrimRight(origin, "/") + TimerPath + "/" + url.PathEscape(routineID) + "/" +
		url.PathEscape(day.String()) + "?token=" + url.QueryEscape(token)
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
