package webhook

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	ErrURLInvalid       = errors.New("webhook url is invalid")
	ErrURLScheme        = errors.New("webhook url scheme must be http or https")
	ErrURLPrivate       = errors.New("webhook url resolves to a private or reserved address")
	ErrURLUnresolvable  = errors.New("webhook url host could not be resolved")
	ErrSecretTooShort   = errors.New("webhook secret must be at least 16 bytes")
	ErrUnknownEventType = errors.New("unknown event type")
)

var blockedHostnames = map[string]struct{}{
	"localhost":                {},
	"metadata":                 {},
	"metadata.google.internal": {},
}

// Resolver looks up the IP addresses of a host. net.DefaultResolver
// satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// URLChecker rejects URLs that would let a subscriber point deliveries
// at internal infrastructure. It is re-run before every send, not just
// at registration, so a DNS record flipped after registration is still
// caught.
type URLChecker struct {
	resolver     Resolver
	allowPrivate bool
}

func NewURLChecker(opts ...func(*URLChecker)) *URLChecker {
	c := &URLChecker{
		resolver: net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithResolver(r Resolver) func(*URLChecker) {
	return func(c *URLChecker) {
		c.resolver = r
	}
}

// WithAllowPrivate disables the private-address checks. Local
// development only, never in production.
func WithAllowPrivate() func(*URLChecker) {
	return func(c *URLChecker) {
		c.allowPrivate = true
	}
}

func (c *URLChecker) Check(ctx context.Context, rawURL string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return errors.Join(ErrURLInvalid, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrURLScheme, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return ErrURLInvalid
	}

	if c.allowPrivate {
		return nil
	}

	if _, ok := blockedHostnames[strings.ToLower(host)]; ok {
		return fmt.Errorf("%w: %s", ErrURLPrivate, host)
	}

	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return fmt.Errorf("%w: %s", ErrURLPrivate, host)
		}
		return nil
	}

	addrs, err := c.resolver.LookupIPAddr(ctx, host)
	if err != nil || len(addrs) == 0 {
		return errors.Join(ErrURLUnresolvable, err)
	}

	for _, addr := range addrs {
		if isBlockedIP(addr.IP) {
			return fmt.Errorf("%w: %s resolves to %s", ErrURLPrivate, host, addr.IP)
		}
	}

	return nil
}

func isBlockedIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}

	// Carrier-grade NAT, 100.64.0.0/10.
	if v4 := ip.To4(); v4 != nil {
		if v4[0] == 100 && v4[1]&0xc0 == 64 {
			return true
		}
	}

	return false
}
