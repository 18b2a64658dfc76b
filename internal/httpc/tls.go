package httpc

import (
	"crypto/tls"

	"github.com/loykin/apismoke/internal/util"
)

// ParseTLSVersion converts a TLS version string to the corresponding crypto/tls constant.
// Supports various formats: "1.0", "10", "tls1.0", "tls10", etc.
// Returns 0 if the version string is not recognized.
func ParseTLSVersion(version string) uint16 {
	switch util.TrimAndLower(version) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}

// TLSConfig builds the client TLS settings from CLI flags. It returns nil when
// both are unset so the transport keeps Go's defaults.
func TLSConfig(minVersion string, insecure bool) *tls.Config {
	minV := ParseTLSVersion(minVersion)
	if minV == 0 && !insecure {
		return nil
	}
	cfg := &tls.Config{MinVersion: minV}
	if insecure {
		// #nosec G402 -- only when --insecure is passed, for self-signed staging hosts
		cfg.InsecureSkipVerify = true
	}
	return cfg
}
