// Package hostresolver turns caller-supplied catalog backend coordinates into
// a validated base URL.
package hostresolver

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
)

const (
	// DefaultBaseURL is used when configuration names no backend
	DefaultBaseURL = "http://localhost:8080"
	// DefaultPort is applied when a host is given without a port
	DefaultPort = "8080"

	maxHostnameLength = 253
)

var (
	ipv4Pattern  = regexp.MustCompile(`^(?:25[0-5]|2[0-4]\d|1?\d?\d)(?:\.(?:25[0-5]|2[0-4]\d|1?\d?\d)){3}$`)
	labelPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,63}$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	portPattern  = regexp.MustCompile(`^\d{2,5}$`)
)

var (
	// ErrInvalidHost is returned when the host is neither IPv4 nor a hostname
	ErrInvalidHost = types.NewValidationError(types.KindInvalidHost, types.MsgInvalidBackendAddress)
	// ErrInvalidPort is returned when the port is not 2-5 digits
	ErrInvalidPort = types.NewValidationError(types.KindInvalidPort, types.MsgInvalidBackendAddress)
)

// BackendAddress is a validated catalog backend location. Addresses parsed
// from configuration keep their original text, path prefix included.
type BackendAddress struct {
	Scheme string
	Host   string
	Port   string // as given; empty when a configured URL names none
	raw    string
}

// BaseURL renders the address. A configured address is returned as written
// minus any trailing slash; a resolved one as scheme://host:port.
func (a BackendAddress) BaseURL() string {
	if a.raw != "" {
		return a.raw
	}
	scheme := a.Scheme
	if scheme == "" {
		scheme = "http"
	}
	if a.Port == "" {
		return scheme + "://" + a.Host
	}
	return scheme + "://" + net.JoinHostPort(a.Host, a.Port)
}

func (a BackendAddress) String() string {
	return a.BaseURL()
}

// Resolver resolves per-request backend overrides against a default address
type Resolver struct {
	defaultAddr BackendAddress
}

// NewResolver creates a resolver whose fallback is parsed from baseURL.
// An empty baseURL falls back to DefaultBaseURL.
func NewResolver(baseURL string) (*Resolver, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	addr, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Resolver{defaultAddr: addr}, nil
}

// Default returns the process-wide default address
func (r *Resolver) Default() BackendAddress {
	return r.defaultAddr
}

// Resolve validates hostInput and portInput. An empty host selects the
// default address; an empty port selects DefaultPort.
func (r *Resolver) Resolve(hostInput, portInput string) (BackendAddress, error) {
	host := strings.TrimSpace(hostInput)
	if host == "" {
		return r.defaultAddr, nil
	}

	if !IsValidHost(host) {
		return BackendAddress{}, fmt.Errorf("resolve %q: %w", host, ErrInvalidHost)
	}

	port := strings.TrimSpace(portInput)
	if port == "" {
		port = DefaultPort
	}
	if !IsValidPort(port) {
		return BackendAddress{}, fmt.Errorf("resolve port %q: %w", port, ErrInvalidPort)
	}

	return BackendAddress{Scheme: "http", Host: host, Port: port}, nil
}

// FromFields resolves the backendIp/backendHost/backendPort trio carried by
// gateway request bodies. backendIp wins when both host fields are set.
func (r *Resolver) FromFields(ip, host, port string) (BackendAddress, error) {
	h := strings.TrimSpace(ip)
	if h == "" {
		h = strings.TrimSpace(host)
	}
	return r.Resolve(h, port)
}

// IsValidHost reports whether host is a dotted-quad IPv4 address or a
// hostname made of 1-63 character alphanumeric/hyphen labels.
func IsValidHost(host string) bool {
	h := strings.TrimSpace(host)
	if ipv4Pattern.MatchString(h) {
		return true
	}
	return isHostname(h)
}

func isHostname(h string) bool {
	if len(h) == 0 || len(h) > maxHostnameLength {
		return false
	}
	if strings.HasPrefix(h, "-") {
		return false
	}

	labels := strings.Split(h, ".")
	numeric := true
	for _, label := range labels {
		if !labelPattern.MatchString(label) {
			return false
		}
		if !digitsOnly.MatchString(label) {
			numeric = false
		}
	}

	// All-numeric dotted names are address attempts, and those must pass the IPv4 check.
	if numeric && len(labels) > 1 {
		return false
	}
	return true
}

// IsValidPort reports whether port is a 2-5 digit string
func IsValidPort(port string) bool {
	return portPattern.MatchString(port)
}

// ParseBaseURL validates a configured base URL such as
// http://localhost:8080 or https://catalog.internal/books-api. The returned
// address renders the input unchanged apart from surrounding whitespace and
// a trailing slash.
func ParseBaseURL(raw string) (BackendAddress, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(trimmed)
	if err != nil {
		return BackendAddress{}, fmt.Errorf("parse backend base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return BackendAddress{}, fmt.Errorf("backend base url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Hostname() == "" {
		return BackendAddress{}, fmt.Errorf("backend base url %q: missing host", raw)
	}
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err != nil || n < 1 || n > 65535 {
			return BackendAddress{}, fmt.Errorf("backend base url %q: invalid port %q", raw, p)
		}
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return BackendAddress{}, fmt.Errorf("backend base url %q: query and fragment are not allowed", raw)
	}

	return BackendAddress{Scheme: u.Scheme, Host: u.Hostname(), Port: u.Port(), raw: trimmed}, nil
}
