// Package host models the machine a path lives on. A Host is either the
// local machine or a remote one reachable over ssh; both expose the same
// command-running contract so path operations can dispatch without caring
// where they execute.
package host

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alessio/shellescape"
	"github.com/tweekmonster/luser"
	"go.uber.org/zap"

	"github.com/hostpath/hostpath/pkg/command"
	"github.com/hostpath/hostpath/pkg/config"
	hperrors "github.com/hostpath/hostpath/pkg/errors"
)

const (
	// DefaultPort is the ssh port assumed when a descriptor omits one.
	DefaultPort = 22

	// defaultRunTimeout bounds each remote command unless the caller
	// provides a timeout or a context deadline.
	defaultRunTimeout = 5 * time.Second
)

// sshOptions disable host-key verification and password prompts; only key or
// agent based authentication is usable through this package.
var sshOptions = strings.Join([]string{
	"-o StrictHostKeyChecking=no",
	"-o UserKnownHostsFile=/dev/null",
	"-o LogLevel=ERROR",
	"-o PasswordAuthentication=no",
}, " ")

var log = zap.NewNop()

// SetLogger installs a logger for command-dispatch diagnostics. Passing nil
// restores the nop logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		log = zap.NewNop()
		return
	}
	log = l
}

var (
	defaultUserOnce sync.Once
	defaultUser     string
)

// DefaultUser is the invoking OS user, substituted when a host descriptor
// omits one. Resolved once per process.
func DefaultUser() string {
	defaultUserOnce.Do(func() {
		if u, err := luser.Current(); err == nil && u.Username != "" {
			defaultUser = u.Username
			return
		}
		if v := os.Getenv("USER"); v != "" {
			defaultUser = v
			return
		}
		defaultUser = "unknown"
	})
	return defaultUser
}

// Host is a machine that path operations dispatch to.
type Host interface {
	// IsRemote reports whether commands run over ssh.
	IsRemote() bool

	// Prefix is the string prepended to a bare path to fully describe it:
	// empty for the local host, "user@hostname:port:" for a remote one
	// (defaults omitted).
	Prefix() string

	// Run executes a shell command on the host and returns its captured
	// stdout. Failures are classified from stderr text.
	Run(ctx context.Context, cmd string, opts ...RunOption) (string, error)
}

type runConfig struct {
	timeout    time.Duration
	classifier command.Classifier
}

// RunOption adjusts a single Run call.
type RunOption func(*runConfig)

// WithTimeout bounds the command execution, overriding the remote default.
func WithTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		c.timeout = d
	}
}

// WithClassifier substitutes the stderr classification applied to failures.
func WithClassifier(cl command.Classifier) RunOption {
	return func(c *runConfig) {
		c.classifier = cl
	}
}

func applyOpts(opts []RunOption) runConfig {
	var cfg runConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Local is the local host.
type Local struct{}

var _ Host = Local{}

func (Local) IsRemote() bool { return false }

// Prefix is empty for the local host.
func (Local) Prefix() string { return "" }

// Run executes the command in a local shell. No implicit timeout applies.
func (Local) Run(ctx context.Context, cmd string, opts ...RunOption) (string, error) {
	cfg := applyOpts(opts)
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	log.Debug("running command", zap.String("host", "local"), zap.String("cmd", cmd))
	out, err := command.Default.Run(ctx, cmd)
	if err != nil {
		return out, cfg.classifier.Classify(err)
	}
	return out, nil
}

// Remote is an ssh-reachable host. Equality is structural over all three
// fields; defaults are substituted at construction time, so a Remote parsed
// without an explicit port equals one parsed with ":22".
type Remote struct {
	Hostname string
	User     string
	Port     int
}

var _ Host = Remote{}

// RemoteOption adjusts a Remote under construction.
type RemoteOption func(*Remote)

// WithUser overrides the default user.
func WithUser(user string) RemoteOption {
	return func(r *Remote) {
		r.User = user
	}
}

// WithPort overrides the default ssh port.
func WithPort(port int) RemoteOption {
	return func(r *Remote) {
		r.Port = port
	}
}

// NewRemote builds a Remote for hostname with defaults filled in.
func NewRemote(hostname string, opts ...RemoteOption) Remote {
	r := Remote{
		Hostname: hostname,
		User:     DefaultUser(),
		Port:     DefaultPort,
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// ParseRemote parses a "[user@]hostname[:port]" descriptor. Descriptors with
// more than one ":" or "@", or a non-integer port, are rejected.
func ParseRemote(descriptor string) (Remote, error) {
	hostPart := descriptor
	port := DefaultPort

	if strings.Contains(hostPart, ":") {
		if strings.Count(hostPart, ":") > 1 {
			return Remote{}, hperrors.NewValidationError(fmt.Sprintf("malformed host descriptor %q: more than one ':'", descriptor))
		}
		var portPart string
		hostPart, portPart, _ = strings.Cut(hostPart, ":")
		parsed, err := strconv.Atoi(portPart)
		if err != nil {
			return Remote{}, hperrors.NewValidationError(fmt.Sprintf("malformed host descriptor %q: invalid port %q", descriptor, portPart))
		}
		port = parsed
	}

	user := DefaultUser()
	if strings.Contains(hostPart, "@") {
		if strings.Count(hostPart, "@") > 1 {
			return Remote{}, hperrors.NewValidationError(fmt.Sprintf("malformed host descriptor %q: more than one '@'", descriptor))
		}
		user, hostPart, _ = strings.Cut(hostPart, "@")
	}

	return Remote{Hostname: hostPart, User: user, Port: port}, nil
}

func (Remote) IsRemote() bool { return true }

// String renders the descriptor with default user and port omitted.
func (r Remote) String() string {
	description := r.Hostname
	if r.User != DefaultUser() {
		description = r.User + "@" + description
	}
	if r.Port != DefaultPort {
		description = description + ":" + strconv.Itoa(r.Port)
	}
	return description
}

// Prefix is the descriptor followed by a colon, the form rsync and the
// address grammar both understand.
func (r Remote) Prefix() string {
	return r.String() + ":"
}

// Run executes the command over a fresh ssh invocation. A default 5 second
// timeout applies unless the caller supplies one or the context already
// carries a deadline.
func (r Remote) Run(ctx context.Context, cmd string, opts ...RunOption) (string, error) {
	cfg := applyOpts(opts)

	timeout := cfg.timeout
	if timeout == 0 {
		if _, ok := ctx.Deadline(); !ok {
			timeout = defaultRunTimeout
		}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sshCmd := r.sshCommand(cmd)
	log.Debug("running command", zap.String("host", r.String()), zap.String("cmd", cmd))
	out, err := command.Default.Run(ctx, sshCmd)
	if err != nil {
		return out, cfg.classifier.Classify(err)
	}
	return out, nil
}

func (r Remote) sshCommand(cmd string) string {
	return fmt.Sprintf("%s %s -p %d %s@%s %s",
		config.NewConstants().GetSSHBinary(), sshOptions, r.Port, r.User, r.Hostname, shellescape.Quote(cmd))
}
