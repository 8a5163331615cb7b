package clientip

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ErrInvalidProxy is returned when a trusted proxy entry is neither an IP nor a CIDR.
var ErrInvalidProxy = errors.New("clientip: invalid trusted proxy")

// DefaultHeaders is the header priority used by GetIP:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean App Platform)
//  3. X-Forwarded-For (first valid entry)
//  4. X-Real-IP (Nginx)
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

var defaultResolver = &Resolver{headers: DefaultHeaders}

// Resolver extracts the client IP from proxy headers, falling back to the
// TCP peer address. When trusted proxies are configured, headers are only
// honoured for requests whose peer address belongs to one of them, so a
// direct client cannot spoof its address by sending X-Forwarded-For.
type Resolver struct {
	headers []string
	trusted []netip.Prefix
}

// New creates a resolver. With no headers DefaultHeaders is used.
// Trusted proxies accept single addresses ("10.0.0.1") and CIDRs ("10.0.0.0/8").
func New(headers []string, trustedProxies ...string) (*Resolver, error) {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}

	r := &Resolver{headers: headers}
	for _, p := range trustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(p); err == nil {
			r.trusted = append(r.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, p)
		}
		r.trusted = append(r.trusted, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}

	return r, nil
}

// NewFromConfig creates a resolver from Config.
func NewFromConfig(cfg Config) (*Resolver, error) {
	return New(cfg.Headers, cfg.TrustedProxies...)
}

// GetIP returns the client's IP address using DefaultHeaders and trusting every peer.
func GetIP(r *http.Request) string {
	return defaultResolver.IP(r)
}

// IP returns the normalized client IP, or an empty string when none is valid.
func (res *Resolver) IP(r *http.Request) string {
	peer := remoteIP(r.RemoteAddr)

	if res.trusts(peer) {
		for _, name := range res.headers {
			if ip := fromHeader(r.Header.Get(name)); ip != "" {
				return ip
			}
		}
	}

	return peer
}

func (res *Resolver) trusts(peer string) bool {
	if len(res.trusted) == 0 {
		return true
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range res.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// fromHeader returns the first valid IP of a possibly comma-separated value.
func fromHeader(value string) string {
	if value == "" {
		return ""
	}
	for ip := range strings.SplitSeq(value, ",") {
		if parsed := parseIP(ip); parsed != "" {
			return parsed
		}
	}
	return ""
}

func remoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// Already a bare IP
		return parseIP(remoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
// Returns empty string if the IP is invalid.
func parseIP(ipStr string) string {
	ipStr = strings.TrimSpace(ipStr)
	if ipStr == "" {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	return ip.String()
}
