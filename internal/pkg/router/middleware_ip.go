package router

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxies holds the networks whose forwarding headers are believed.
type proxies []netip.Prefix

// parseProxies accepts CIDRs ("10.0.0.0/8") and bare addresses. Invalid
// entries are logged and skipped.
func parseProxies(entries []string) proxies {
	out := make(proxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if p, err := netip.ParsePrefix(entry); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}

		slog.Warn("ignoring invalid trusted proxy", "entry", entry)
	}
	return out
}

func (ps proxies) trusts(addr netip.Addr) bool {
	for _, p := range ps {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the caller's address. X-Real-IP and X-Forwarded-For are
// only read when the direct peer is a trusted proxy. X-Forwarded-For is
// walked right to left and the first untrusted hop wins, since hops to the
// left of it are client supplied.
func (ps proxies) clientIP(r *http.Request) (netip.Addr, bool) {
	peer, ok := parseAddr(r.RemoteAddr)
	if !ok {
		return netip.Addr{}, false
	}
	if !ps.trusts(peer) {
		return peer, true
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, ok := parseAddr(hops[i])
			if !ok {
				break
			}
			if !ps.trusts(hop) {
				return hop, true
			}
		}
	}

	if xrip, ok := parseAddr(r.Header.Get("X-Real-IP")); ok {
		return xrip, true
	}

	return peer, true
}

// parseAddr reads "ip", "ip:port" or "[ipv6]:port".
func parseAddr(raw string) (netip.Addr, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// middlewareIP rewrites RemoteAddr to the resolved client address, so access
// logs and the observability attributes report the real caller.
func middlewareIP(trusted []string) Middleware {
	ps := parseProxies(trusted)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip, ok := ps.clientIP(r); ok {
				r.RemoteAddr = ip.String()
			}
			next.ServeHTTP(w, r)
		})
	}
}
