package apiclient

import (
	"net"
	"strings"
)

// HeaderSchoolCode carries the tenant on every API request.
const HeaderSchoolCode = "X-School-Code"

// SchoolCode resolves the tenant from the host the browser used. Hosts under
// the tenant suffix yield their first label; anything else gets fallback.
func SchoolCode(host, suffix, fallback string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	if suffix != "" && strings.HasSuffix(host, strings.ToLower(suffix)) {
		if label, _, _ := strings.Cut(host, "."); label != "" {
			return label
		}
	}
	return fallback
}
