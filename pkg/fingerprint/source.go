package fingerprint

import (
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
)

// Source extracts one non-empty value from a request. A source that cannot
// produce a value returns an error wrapping ErrSourceMissing.
type Source func(r *http.Request) (string, error)

// Source names accepted by SourceByName.
const (
	SourceRemoteAddr   = "remote_addr"
	SourceUserAgent    = "user_agent"
	SourceClientIP     = "client_ip"
	SourceHeaderSet    = "header_set"
	SourceHeaderPrefix = "header:"
)

// RemoteAddr uses the host part of the TCP peer address.
func RemoteAddr() Source {
	return func(r *http.Request) (string, error) {
		addr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
		if addr == "" {
			return "", fmt.Errorf("%w: remote address", ErrSourceMissing)
		}
		return addr, nil
	}
}

// UserAgent uses the User-Agent header.
func UserAgent() Source {
	return Header("User-Agent")
}

// ClientIP uses the proxy-aware client address resolved by clientip.
// A nil resolver trusts forwarding headers from every peer.
func ClientIP(res *clientip.Resolver) Source {
	return func(r *http.Request) (string, error) {
		var ip string
		if res != nil {
			ip = res.IP(r)
		} else {
			ip = clientip.FromRequest(r)
		}
		if ip == "" {
			return "", fmt.Errorf("%w: client ip", ErrSourceMissing)
		}
		return ip, nil
	}
}

// Header uses the value of the named request header.
func Header(name string) Source {
	name = http.CanonicalHeaderKey(name)
	return func(r *http.Request) (string, error) {
		v := strings.TrimSpace(r.Header.Get(name))
		if v == "" {
			return "", fmt.Errorf("%w: header %s", ErrSourceMissing, name)
		}
		return v, nil
	}
}

// HeaderSet uses which stable browser headers are present, not their values.
// Different clients send different header sets.
func HeaderSet() Source {
	return func(r *http.Request) (string, error) {
		var names []string
		for name := range r.Header {
			switch strings.ToLower(name) {
			case "user-agent", "accept", "accept-language", "accept-encoding",
				"connection", "upgrade-insecure-requests", "sec-fetch-dest",
				"sec-fetch-mode", "sec-fetch-site", "cache-control":
				names = append(names, strings.ToLower(name))
			}
		}
		if len(names) == 0 {
			return "", fmt.Errorf("%w: header set", ErrSourceMissing)
		}
		sort.Strings(names)
		return strings.Join(names, ","), nil
	}
}

// SourceByName resolves a configured source name: remote_addr, user_agent,
// client_ip, header_set or header:<Name>.
func SourceByName(name string, res *clientip.Resolver) (Source, error) {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case SourceRemoteAddr:
		return RemoteAddr(), nil
	case SourceUserAgent:
		return UserAgent(), nil
	case SourceClientIP:
		return ClientIP(res), nil
	case SourceHeaderSet:
		return HeaderSet(), nil
	}

	if len(name) > len(SourceHeaderPrefix) && strings.EqualFold(name[:len(SourceHeaderPrefix)], SourceHeaderPrefix) {
		return Header(name[len(SourceHeaderPrefix):]), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}
