package security

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address the rate limiter keys on. Forwarding headers
// are only read when trustProxy is set; otherwise the host of RemoteAddr is used.
//
// X-Forwarded-For is read from the right: the last trustedProxyCount entries
// were appended by proxies we run, so the client is the entry just before
// them. A count of zero is treated as one proxy.
func ClientIP(r *http.Request, trustProxy bool, trustedProxyCount int) string {
	if trustProxy {
		if ip := ipFromXFF(r.Header.Get("X-Forwarded-For"), trustedProxyCount); ip != "" {
			return ip
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
			return ip
		}
	}
	return ipFromRemoteAddr(r.RemoteAddr)
}

func ipFromXFF(xff string, trustedProxyCount int) string {
	if xff == "" {
		return ""
	}
	ips := strings.Split(xff, ",")

	proxies := trustedProxyCount
	if proxies <= 0 {
		proxies = 1
	}
	index := len(ips) - proxies - 1
	if index < 0 {
		index = 0
	}

	if ip := strings.TrimSpace(ips[index]); net.ParseIP(ip) != nil {
		return ip
	}
	return ""
}

func ipFromRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
