// Package path provides an immutable path value bound to a host. A Path
// behaves like an ordinary hierarchical filesystem path for pure
// manipulation, and dispatches its file operations either to the local
// filesystem or to shell commands executed on a remote host.
//
// Local paths look like:
//
//	foo/bar.txt
//	/path/to/here
//
// Remote paths look like:
//
//	my-server:/path/to/here
//	me@pypi.org:~/.config/app
//	root@localhost:8080:/etc/config
//
// A remote path is defined by a colon appearing just before the first slash
// or tilde. Remote paths are always anchored ("/" or "~"); there is no such
// thing as a relative remote path.
package path

import (
	"fmt"
	"strings"

	"github.com/hostpath/hostpath/pkg/address"
	hperrors "github.com/hostpath/hostpath/pkg/errors"
	"github.com/hostpath/hostpath/pkg/host"
)

// Errors returned by the pure manipulation surface.
var (
	// ErrHostMismatch is returned when an operation requires both paths to
	// live on the same host.
	ErrHostMismatch = hperrors.New("hosts must match")

	// ErrUnrelated is returned by RelativeTo when the paths do not share a
	// prefix, or live on different hosts.
	ErrUnrelated = hperrors.New("paths are unrelated")
)

// Path is an immutable (host, bare path) value. The zero value is the local
// path ".".
type Path struct {
	host host.Host
	bare string
}

// New parses a combined "[host:]path" string. Malformed host descriptors are
// rejected.
func New(s string) (Path, error) {
	h, bare, err := address.Split(s)
	if err != nil {
		return Path{}, err
	}
	return Path{host: h, bare: normalize(bare)}, nil
}

// MustNew is New for statically known inputs; it panics on a parse error.
func MustNew(s string) Path {
	p, err := New(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Local builds a Path on the local host from a bare path, bypassing the
// grammar entirely: colons in s are path bytes, never a host delimiter.
func Local(bare string) Path {
	return Path{host: host.Local{}, bare: normalize(bare)}
}

// On builds a Path on an explicit host from a bare path.
func On(h host.Host, bare string) Path {
	return Path{host: h, bare: normalize(bare)}
}

// derive re-attaches the host to a transformed bare path. Every pure
// operation producing a new Path goes through here.
func (p Path) derive(pure purePath) Path {
	return Path{host: p.Host(), bare: pure.String()}
}

func (p Path) pure() purePath {
	return parsePure(p.bare)
}

// Host returns the host the path is bound to.
func (p Path) Host() host.Host {
	if p.host == nil {
		return host.Local{}
	}
	return p.host
}

// Bare returns the bare path with any host prefix stripped.
func (p Path) Bare() string {
	if p.bare == "" {
		return "."
	}
	return p.bare
}

// IsRemote reports whether the path lives on a remote host.
func (p Path) IsRemote() bool {
	return p.Host().IsRemote()
}

// Remote returns the remote host, if any.
func (p Path) Remote() (host.Remote, bool) {
	r, ok := p.Host().(host.Remote)
	return r, ok
}

// RParts returns the host descriptor and the bare path. The descriptor is
// empty for local paths.
func (p Path) RParts() (string, string) {
	if r, ok := p.Remote(); ok {
		return r.String(), p.Bare()
	}
	return "", p.Bare()
}

// String is the combined form "<host prefix><bare path>". It re-parses into
// an equal Path as long as no bare segment contains a literal ":/" or ":~".
func (p Path) String() string {
	return p.Host().Prefix() + p.Bare()
}

// Equal reports whether both the bare paths and the hosts match.
func (p Path) Equal(other Path) bool {
	return p.Bare() == other.Bare() && p.Host() == other.Host()
}

// Name is the final path component, empty for a root or "." path.
func (p Path) Name() string {
	return p.pure().name()
}

// Parent drops the final component; the parent of a root or "." path is
// itself.
func (p Path) Parent() Path {
	return p.derive(p.pure().parent())
}

// Parts returns the components of the bare path, with a leading "/" entry
// for absolute paths. The host is ignored.
func (p Path) Parts() []string {
	pure := p.pure()
	var parts []string
	if pure.root != "" {
		parts = append(parts, pure.root)
	}
	return append(parts, pure.segs...)
}

// Suffix is the final component's last extension including the leading
// period, for example ".txt".
func (p Path) Suffix() string {
	return suffixOf(p.Name())
}

// Suffixes lists all extensions of the final component, for example
// [".tar", ".gz"].
func (p Path) Suffixes() []string {
	return suffixesOf(p.Name())
}

// Stem is the final component minus its last suffix.
func (p Path) Stem() string {
	name := p.Name()
	return strings.TrimSuffix(name, suffixOf(name))
}

// WithName replaces the final component.
func (p Path) WithName(name string) (Path, error) {
	if p.Name() == "" {
		return Path{}, hperrors.NewValidationError(fmt.Sprintf("%q has an empty name", p))
	}
	if name == "" || name == "." || strings.Contains(name, "/") {
		return Path{}, hperrors.NewValidationError(fmt.Sprintf("invalid name %q", name))
	}
	pure := p.pure()
	pure.segs[len(pure.segs)-1] = name
	return p.derive(pure), nil
}

// WithStem replaces the final component's stem, keeping its suffix.
func (p Path) WithStem(stem string) (Path, error) {
	return p.WithName(stem + p.Suffix())
}

// WithSuffix replaces the final component's suffix. An empty suffix removes
// it; a path without a suffix gains one.
func (p Path) WithSuffix(suffix string) (Path, error) {
	if suffix != "" && (!strings.HasPrefix(suffix, ".") || suffix == "." || strings.Contains(suffix, "/")) {
		return Path{}, hperrors.NewValidationError(fmt.Sprintf("invalid suffix %q", suffix))
	}
	return p.WithName(p.Stem() + suffix)
}

// IsAbsolute reports whether the bare path has a root. A "~" anchor is not
// absolute.
func (p Path) IsAbsolute() bool {
	return p.pure().root == "/"
}

// RelativeTo computes the path relative to other. It fails with ErrUnrelated
// when the hosts differ or other is not a prefix of p.
func (p Path) RelativeTo(other Path) (Path, error) {
	if p.Host() != other.Host() {
		return Path{}, hperrors.Wrapf(ErrUnrelated, "%q and %q are on different hosts", p, other)
	}
	pure, otherPure := p.pure(), other.pure()
	if !pure.hasPrefix(otherPure) {
		return Path{}, hperrors.Wrapf(ErrUnrelated, "%q is not a subpath of %q", p, other)
	}
	return p.derive(purePath{segs: pure.segs[len(otherPure.segs):]}), nil
}

// IsRelativeTo reports whether RelativeTo would succeed. Differing hosts
// yield false, never an error.
func (p Path) IsRelativeTo(other Path) bool {
	if p.Host() != other.Host() {
		return false
	}
	return p.pure().hasPrefix(other.pure())
}

// Join appends bare path elements. Elements are not run through the host
// grammar: colons are path bytes. Joining an absolute element discards
// everything before it.
func (p Path) Join(elems ...string) Path {
	pure := p.pure()
	for _, elem := range elems {
		pure = pure.join(parsePure(elem))
	}
	return p.derive(pure)
}

// JoinPath joins another Path onto p. A right-hand operand carrying a
// different remote host fails with ErrHostMismatch; a local right-hand
// operand contributes its bare path only. The usual absolute-wins join rule
// applies.
func (p Path) JoinPath(other Path) (Path, error) {
	if other.IsRemote() && other.Host() != p.Host() {
		return Path{}, hperrors.Wrapf(ErrHostMismatch, "cannot join %q onto %q", other, p)
	}
	return p.derive(p.pure().join(other.pure())), nil
}
