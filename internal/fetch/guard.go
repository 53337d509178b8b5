package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// ErrPrivateAddress is returned for URLs that point at non-public addresses
var ErrPrivateAddress = errors.New("address is not publicly routable")

// lookupIPAddr resolves hosts for checkPublicHost; replaced in tests
var lookupIPAddr = net.DefaultResolver.LookupIPAddr

var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isPublicIP(ip net.IP) bool {
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	case sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// checkPublicHost rejects rawURL when any address of its host is not public
func checkPublicHost(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	host := u.Hostname()

	if ip := net.ParseIP(host); ip != nil {
		if !isPublicIP(ip) {
			return fmt.Errorf("%s: %w", host, ErrPrivateAddress)
		}
		return nil
	}

	addrs, err := lookupIPAddr(ctx, host)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}
	for _, a := range addrs {
		if !isPublicIP(a.IP) {
			return fmt.Errorf("%s resolves to %s: %w", host, a.IP, ErrPrivateAddress)
		}
	}
	return nil
}

// publicOnlyControl runs after DNS resolution, so rebinding cannot slip past checkPublicHost
func publicOnlyControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("dial %s: %w", address, ErrPrivateAddress)
	}
	return nil
}

// newTransport builds the outbound transport. With a proxy configured the
// proxy itself is dialled, so only checkPublicHost applies.
func newTransport(httpProxy, httpsProxy string, publicOnly bool) *http.Transport {
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	if publicOnly && httpProxy == "" && httpsProxy == "" {
		dialer.Control = publicOnlyControl
	}
	return &http.Transport{
		Proxy:               NewProxyFunc(httpProxy, httpsProxy),
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
