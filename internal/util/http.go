package util

import (
	"net"
	"strings"
)

// MaskIP masks the last octet of an IPv4 address before it reaches the logs.
// Example: "1.2.3.4" -> "1.2.3.x"
// For IPv6 or other formats, returns the original string unchanged
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if strings.Count(ip, ":") == 0 && strings.Count(ip, ".") == 3 {
		parts := strings.Split(ip, ".")
		if len(parts) == 4 {
			parts[3] = "x"
			return strings.Join(parts, ".")
		}
	}

	return ip
}

// ExtractClientIP extracts the client IP address from various sources
// Checks X-Forwarded-For, X-Real-IP headers and falls back to RemoteAddr
func ExtractClientIP(xForwardedFor string, realIP string, remoteAddr string) string {
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP != "" {
		return realIP
	}

	if remoteAddr != "" {
		// RemoteAddr might include port, extract just the IP
		ip, _, err := net.SplitHostPort(remoteAddr)
		if err != nil {
			return remoteAddr
		}
		return ip
	}

	return ""
}
