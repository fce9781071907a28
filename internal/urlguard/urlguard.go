// CLAUDE:SUMMARY SSRF guard for live captures: only http(s) URLs whose host does not resolve to a private, loopback or link-local address.
// Package urlguard decides whether a URL may be opened in the capture
// browser on behalf of a remote caller.
package urlguard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// ErrUnsafeScheme is returned when a URL uses a non-HTTP(S) scheme.
var ErrUnsafeScheme = errors.New("urlguard: only http and https schemes are allowed")

// ErrPrivateAddress is returned when a URL targets a private or loopback address.
var ErrPrivateAddress = errors.New("urlguard: URL targets a private or loopback address")

// Resolver looks up host addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Guard validates capture URLs.
type Guard struct {
	// AllowPrivate disables the address check; the scheme is still enforced.
	AllowPrivate bool
	Resolver     Resolver
}

// New returns a Guard using the default resolver.
func New(allowPrivate bool) *Guard {
	return &Guard{AllowPrivate: allowPrivate, Resolver: net.DefaultResolver}
}

// Check validates rawURL. Hostnames are resolved and every address is
// checked, so internal names pointing at private ranges are refused too.
// A resolution failure is let through: navigation will fail on its own.
func (g *Guard) Check(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("urlguard: invalid URL: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrUnsafeScheme
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("urlguard: URL has no host")
	}
	if g.AllowPrivate {
		return nil
	}

	if ip, err := netip.ParseAddr(host); err == nil {
		if isPrivate(ip) {
			return ErrPrivateAddress
		}
		return nil
	}

	addrs, err := g.Resolver.LookupHost(ctx, host)
	if err != nil {
		return nil
	}
	for _, a := range addrs {
		if ip, err := netip.ParseAddr(a); err == nil && isPrivate(ip) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateAddress, host, a)
		}
	}
	return nil
}

func isPrivate(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
