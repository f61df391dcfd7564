package middleware

import (
	"context"
	"net/http"
	"net/netip"
	"strings"

	"github.com/xy-planning-network/relay"
)

const unknownIP = "0.0.0.0"

// ipHeaders are checked in order for the address of the client.
var ipHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}

// IANA defined IPv4 non-public ranges not covered by netip.Addr.IsPrivate
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
}

// InjectIPAddress grabs the IP address in the *http.Request.Header
// and promotes it to *http.Request.Context under relay.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetIPAddress(r.Header)
			h.ServeHTTP(w, r.Clone(context.WithValue(r.Context(), relay.IpAddrKey, ip)))
		})
	}
}

// GetIPAddress parses "X-Forwarded-For" and "X-Real-Ip" headers for the IP address
// from the request.
//
// GetIPAddress skips addresses from non-public ranges,
// returning "0.0.0.0" when no public address is found.
func GetIPAddress(hm http.Header) string {
	for _, h := range ipHeaders {
		addresses := strings.Split(hm.Get(h), ",")
		// march from right to left until we get a public address
		// that will be the address right before our proxy.
		for i := len(addresses) - 1; i >= 0; i-- {
			ip := strings.TrimSpace(addresses[i])
			addr, err := netip.ParseAddr(ip)
			if err != nil || !isPublic(addr) {
				continue
			}

			return ip
		}
	}

	return unknownIP
}

// isPublic reports whether addr routes on the public internet.
func isPublic(addr netip.Addr) bool {
	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return false
	}

	addr = addr.Unmap()
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return false
		}
	}

	return true
}
