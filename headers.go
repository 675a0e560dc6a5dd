package vastcap

import stealth "github.com/anatolykoptev/go-stealth"

// defaultUserAgent identifies the SDK when no browser profile is configured.
const defaultUserAgent = "go-vastcap/" + Version

// apiHeaders returns the headers sent with every solver API call.
func apiHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	h := map[string]string{
		"content-type":    "application/json",
		"accept":          "application/json",
		"accept-language": "en-US,en;q=0.9",
		"user-agent":      userAgent,
	}
	if ch := stealth.ClientHintsHeaders(userAgent); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	return h
}

// apiHeaderOrder keeps header order stable for the fingerprinted transport.
var apiHeaderOrder = []string{
	"content-type",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}
