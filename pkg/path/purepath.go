package path

import "strings"

// purePath is a parsed bare path: an optional root plus ordered segments.
// "." segments and duplicate separators collapse during parsing, ".."
// segments are preserved, and "~"/"~user" is an ordinary leading segment
// with no expansion.
type purePath struct {
	root string // "/" or ""
	segs []string
}

func parsePure(s string) purePath {
	var p purePath
	if strings.HasPrefix(s, "/") {
		p.root = "/"
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." {
			continue
		}
		p.segs = append(p.segs, seg)
	}
	return p
}

func (p purePath) String() string {
	if len(p.segs) == 0 {
		if p.root != "" {
			return p.root
		}
		return "."
	}
	return p.root + strings.Join(p.segs, "/")
}

// normalize reduces a bare path string to its canonical form. The empty
// string becomes ".".
func normalize(s string) string {
	return parsePure(s).String()
}

// hasPrefix reports whether other is a prefix of p in the path sense: same
// root, and every segment of other matches the corresponding segment of p.
func (p purePath) hasPrefix(other purePath) bool {
	if p.root != other.root {
		return false
	}
	if len(other.segs) > len(p.segs) {
		return false
	}
	for i, seg := range other.segs {
		if p.segs[i] != seg {
			return false
		}
	}
	return true
}

// join appends other to p; an absolute other discards p entirely.
func (p purePath) join(other purePath) purePath {
	if other.root == "/" {
		return other
	}
	joined := purePath{root: p.root}
	joined.segs = append(joined.segs, p.segs...)
	joined.segs = append(joined.segs, other.segs...)
	return joined
}

func (p purePath) name() string {
	if len(p.segs) == 0 {
		return ""
	}
	return p.segs[len(p.segs)-1]
}

func (p purePath) parent() purePath {
	if len(p.segs) == 0 {
		return p
	}
	return purePath{root: p.root, segs: p.segs[:len(p.segs)-1]}
}

// suffix returns the final component's last extension including the dot, or
// "" when there is none. A leading dot, as in ".bashrc", does not open a
// suffix, and a trailing dot closes none.
func suffixOf(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

func suffixesOf(name string) []string {
	if name == "" || strings.HasSuffix(name, ".") {
		return nil
	}
	parts := strings.Split(strings.TrimLeft(name, "."), ".")
	if len(parts) < 2 {
		return nil
	}
	suffixes := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		suffixes = append(suffixes, "."+part)
	}
	return suffixes
}
