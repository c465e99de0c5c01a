// Package address implements the combined path string grammar.
//
// A string names a remote location iff a colon appears strictly before the
// first "/" or "~"; the text before that colon is a "[user@]hostname[:port]"
// descriptor and everything from the "/" or "~" onward is the bare path.
// Everything else, colons included, is a local path:
//
//	server:/bin/sh      -> Remote("server"), "/bin/sh"
//	me@there:60:~/.conf -> Remote("there", "me", 60), "~/.conf"
//	abc:def             -> Local, "abc:def"
package address

import (
	"strings"

	"github.com/hostpath/hostpath/pkg/host"
)

// Split parses a combined path string into a host and a bare path. The "/"
// or "~" that terminates the descriptor is retained as the first byte of the
// bare path. Strings without a host descriptor come back on the local host
// unchanged.
func Split(s string) (host.Host, string, error) {
	if i := strings.Index(s, ":/"); i >= 0 && strings.Index(s, ":") < strings.Index(s, "/") {
		remote, err := host.ParseRemote(s[:i])
		if err != nil {
			return nil, "", err
		}
		return remote, s[i+1:], nil
	}

	if i := strings.Index(s, ":~"); i >= 0 && strings.Index(s, ":") < strings.Index(s, "~") {
		remote, err := host.ParseRemote(s[:i])
		if err != nil {
			return nil, "", err
		}
		return remote, s[i+1:], nil
	}

	return host.Local{}, s, nil
}
