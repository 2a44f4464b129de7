// Package checks provides validation and verification helpers: data
// format validators, system state probes, and criterio field adapters
// for form and CLI input.
package checks

import (
	"fmt"
	"net"
	"net/mail"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"golang.org/x/term"
)

// Defaults for the internet reachability probe. Cloudflare DNS answers
// on TCP 53 from anywhere, which makes it a stable target.
const (
	DefaultProbeHost    = "1.1.1.1"
	DefaultProbePort    = 53
	DefaultProbeTimeout = 3 * time.Second
)

// Labels of alphanumerics and hyphens, a trailing alphabetic TLD.
var fqdnPattern = regexp.MustCompile(`^(?i)([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// CommandExists reports whether name resolves to an executable on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// IsRoot reports whether the process runs with root privileges.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// InternetAvailable probes for connectivity by dialing host:port over
// TCP. Zero-value arguments select the defaults.
func InternetAvailable(host string, port int, timeout time.Duration) bool {
	if host == "" {
		host = DefaultProbeHost
	}
	if port == 0 {
		port = DefaultProbePort
	}
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()

	return true
}

// IsTerminal reports whether stdout is attached to a TTY.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsEmail reports whether value is a bare email address with a dotted
// domain. Display names ("A <a@b.com>") and bare hosts ("a@localhost")
// are rejected.
func IsEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	at := strings.LastIndex(addr.Address, "@")
	return strings.Contains(addr.Address[at+1:], ".")
}

// IsIPv4 reports whether value is a valid dotted-quad IPv4 address.
func IsIPv4(value string) bool {
	ip := net.ParseIP(value)
	return ip != nil && ip.To4() != nil && !strings.Contains(value, ":")
}

// IsIPv6 reports whether value is a valid IPv6 address.
func IsIPv6(value string) bool {
	return net.ParseIP(value) != nil && strings.Contains(value, ":")
}

// IsFQDN reports whether value is a fully qualified domain name.
func IsFQDN(value string) bool {
	return len(value) <= 253 && fqdnPattern.MatchString(value)
}

// IsNumeric reports whether value parses as an integer or float.
func IsNumeric(value string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err == nil
}

// IsTrue reports whether value reads as an affirmative: "true", "1",
// "t", "y", or "yes", case-insensitively.
func IsTrue(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "t", "y", "yes":
		return true
	default:
		return false
	}
}

// IsEmpty reports whether value has zero length.
func IsEmpty(value string) bool {
	return len(value) == 0
}

// Field adapts a boolean check into a criterio field error, so checks
// compose with form and config validation.
func Field(field, value string, check func(string) bool, msg string) error {
	return criterio.Run(field, value, func(v string) error {
		if !check(v) {
			return fmt.Errorf("%s: %q", msg, v)
		}
		return nil
	})
}
