package vastcap

import "strings"

// DefaultBaseURL is the VastCap solver API root.
const DefaultBaseURL = "https://captcha.vast.sh/api/solver"

// Endpoint names a solver API method.
type Endpoint string

const (
	EndpointCreateTask    Endpoint = "createTask"
	EndpointGetTaskResult Endpoint = "getTaskResult"
	EndpointGetBalance    Endpoint = "getBalance"
)

// URL returns the full URL for this endpoint under base.
func (e Endpoint) URL(base string) string {
	return strings.TrimRight(base, "/") + "/" + string(e)
}
