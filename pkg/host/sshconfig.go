package host

import (
	"io"
	"strconv"

	"github.com/kevinburke/ssh_config"

	hperrors "github.com/hostpath/hostpath/pkg/errors"
)

// RemoteFromSSHConfig resolves an alias against OpenSSH client configuration
// text and returns the Remote it describes. Missing Hostname falls back to
// the alias itself; missing User and Port take the usual defaults.
func RemoteFromSSHConfig(r io.Reader, alias string) (Remote, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return Remote{}, hperrors.WrapAndTrace(err, "parsing ssh config")
	}

	hostname, err := cfg.Get(alias, "HostName")
	if err != nil {
		return Remote{}, hperrors.WrapAndTrace(err)
	}
	if hostname == "" {
		hostname = alias
	}

	var opts []RemoteOption
	user, err := cfg.Get(alias, "User")
	if err != nil {
		return Remote{}, hperrors.WrapAndTrace(err)
	}
	if user != "" {
		opts = append(opts, WithUser(user))
	}

	portStr, err := cfg.Get(alias, "Port")
	if err != nil {
		return Remote{}, hperrors.WrapAndTrace(err)
	}
	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Remote{}, hperrors.NewValidationError("invalid Port for " + alias + ": " + portStr)
		}
		opts = append(opts, WithPort(port))
	}

	return NewRemote(hostname, opts...), nil
}
