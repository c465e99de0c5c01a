package path

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/hostpath/hostpath/pkg/command"
	hperrors "github.com/hostpath/hostpath/pkg/errors"
	"github.com/hostpath/hostpath/pkg/rsync"
)

// fsys backs all local file operations. Tests swap it for an
// afero.NewMemMapFs().
var fsys afero.Fs = afero.NewOsFs()

// SetFs replaces the filesystem used for local operations.
func SetFs(fs afero.Fs) {
	fsys = fs
}

// Exists reports whether the path exists.
func (p Path) Exists(ctx context.Context) (bool, error) {
	if p.IsRemote() {
		out, err := p.Host().Run(ctx, fmt.Sprintf("[[ -f %s ]] || echo no", p.Bare()))
		if err != nil {
			return false, hperrors.WrapAndTrace(err)
		}
		return out != "no", nil
	}
	ok, err := afero.Exists(fsys, p.Bare())
	return ok, hperrors.WrapAndTrace(err)
}

// ReadBytes returns the file contents. Remote reads are staged through a
// local temporary file moved over the sync transport.
func (p Path) ReadBytes(ctx context.Context) ([]byte, error) {
	if p.IsRemote() {
		var data []byte
		err := WithTempPath(func(tmp Path) error {
			if err := p.CopyTo(ctx, tmp, CopyOptions{}); err != nil {
				return err
			}
			local, err := afero.ReadFile(fsys, tmp.Bare())
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			data = local
			return nil
		})
		return data, err
	}
	data, err := afero.ReadFile(fsys, p.Bare())
	return data, hperrors.WrapAndTrace(err)
}

// WriteBytes writes data to the file, creating it if needed. Remote writes
// are staged through a local temporary file.
func (p Path) WriteBytes(ctx context.Context, data []byte) error {
	if p.IsRemote() {
		return WithTempPath(func(tmp Path) error {
			if err := afero.WriteFile(fsys, tmp.Bare(), data, 0o644); err != nil {
				return hperrors.WrapAndTrace(err)
			}
			// copy, not move: the staging file is removed on scope exit
			return tmp.CopyTo(ctx, p, CopyOptions{})
		})
	}
	return hperrors.WrapAndTrace(afero.WriteFile(fsys, p.Bare(), data, 0o644))
}

// ReadText returns the file contents as a string. Remote reads go through a
// single cat invocation rather than transport staging.
func (p Path) ReadText(ctx context.Context) (string, error) {
	if p.IsRemote() {
		out, err := p.Host().Run(ctx, "cat "+p.Bare())
		return out, hperrors.WrapAndTrace(err)
	}
	data, err := afero.ReadFile(fsys, p.Bare())
	if err != nil {
		return "", hperrors.WrapAndTrace(err)
	}
	return string(data), nil
}

// WriteText writes a string to the file.
func (p Path) WriteText(ctx context.Context, data string) error {
	return p.WriteBytes(ctx, []byte(data))
}

// MkdirOptions mirror the usual mkdir switches.
type MkdirOptions struct {
	// Parents creates missing ancestor directories.
	Parents bool

	// ExistOK suppresses the error when the directory already exists.
	ExistOK bool
}

// Mkdir creates the directory.
func (p Path) Mkdir(ctx context.Context, opts MkdirOptions) error {
	if p.IsRemote() {
		cmd := "mkdir "
		if opts.Parents {
			cmd += "-p "
		}
		cmd += p.Bare()
		if opts.ExistOK {
			cmd = fmt.Sprintf("[[ -f %s ]] || %s", p.Bare(), cmd)
		}
		_, err := p.Host().Run(ctx, cmd)
		return hperrors.WrapAndTrace(err)
	}

	if opts.Parents {
		if !opts.ExistOK {
			if ok, err := afero.Exists(fsys, p.Bare()); err != nil {
				return hperrors.WrapAndTrace(err)
			} else if ok {
				return hperrors.Wrapf(command.ErrAlreadyExists, "mkdir %s", p.Bare())
			}
		}
		return hperrors.WrapAndTrace(fsys.MkdirAll(p.Bare(), 0o755))
	}

	err := fsys.Mkdir(p.Bare(), 0o755)
	if err != nil && opts.ExistOK && os.IsExist(err) {
		return nil
	}
	return hperrors.WrapAndTrace(err)
}

// SymlinkTo makes p a symbolic link pointing at target. Both paths must live
// on the same host.
func (p Path) SymlinkTo(ctx context.Context, target Path) error {
	if p.Host() != target.Host() {
		return hperrors.Wrapf(ErrHostMismatch, "cannot link %q to %q", p, target)
	}
	if p.IsRemote() {
		_, err := p.Host().Run(ctx, fmt.Sprintf("ln -s %s %s", target.Bare(), p.Bare()))
		return hperrors.WrapAndTrace(err)
	}
	linker, ok := fsys.(afero.Linker)
	if !ok {
		return hperrors.Wrapf(command.ErrUnsupported, "%T does not support symlinks", fsys)
	}
	return hperrors.WrapAndTrace(linker.SymlinkIfPossible(target.Bare(), p.Bare()))
}

// statFormat emits mode(hex), inode, device, nlink, uid, gid, size, atime,
// mtime, ctime. GNU coreutils stat syntax; works on linux targets.
const statFormat = "%f %i %d %h %u %g %s %X %Y %W"

// Stat returns file metadata, following symlinks.
func (p Path) Stat(ctx context.Context) (FileInfo, error) {
	return p.stat(ctx, true)
}

// Lstat returns file metadata without following symlinks.
func (p Path) Lstat(ctx context.Context) (FileInfo, error) {
	return p.stat(ctx, false)
}

func (p Path) stat(ctx context.Context, followSymlinks bool) (FileInfo, error) {
	if p.IsRemote() {
		args := ""
		if followSymlinks {
			args = "-L "
		}
		out, err := p.Host().Run(ctx, fmt.Sprintf("stat %s--format='%s' %s", args, statFormat, p.Bare()))
		if err != nil {
			return FileInfo{}, hperrors.WrapAndTrace(err)
		}
		info, err := parseStatOutput(out)
		return info, hperrors.WrapAndTrace(err)
	}

	if !followSymlinks {
		if lstater, ok := fsys.(afero.Lstater); ok {
			fi, _, err := lstater.LstatIfPossible(p.Bare())
			if err != nil {
				return FileInfo{}, hperrors.WrapAndTrace(err)
			}
			return fileInfoFromOS(fi), nil
		}
	}
	fi, err := fsys.Stat(p.Bare())
	if err != nil {
		return FileInfo{}, hperrors.WrapAndTrace(err)
	}
	return fileInfoFromOS(fi), nil
}

// Unlink removes the file or symlink. With missingOK a vanished path is not
// an error.
func (p Path) Unlink(ctx context.Context, missingOK bool) error {
	if p.IsRemote() {
		cmd := "rm "
		if missingOK {
			cmd += "-f "
		}
		cmd += p.Bare()
		_, err := p.Host().Run(ctx, cmd)
		return hperrors.WrapAndTrace(err)
	}
	err := fsys.Remove(p.Bare())
	if err != nil && missingOK && os.IsNotExist(err) {
		return nil
	}
	return hperrors.WrapAndTrace(err)
}

// Touch creates the file if absent, else updates its modification time.
func (p Path) Touch(ctx context.Context) error {
	if p.IsRemote() {
		_, err := p.Host().Run(ctx, "touch "+p.Bare())
		return hperrors.WrapAndTrace(err)
	}

	ok, err := afero.Exists(fsys, p.Bare())
	if err != nil {
		return hperrors.WrapAndTrace(err)
	}
	if ok {
		now := time.Now()
		return hperrors.WrapAndTrace(fsys.Chtimes(p.Bare(), now, now))
	}
	f, err := fsys.Create(p.Bare())
	if err != nil {
		return hperrors.WrapAndTrace(err)
	}
	return hperrors.WrapAndTrace(f.Close())
}

// Chmod changes the permission bits.
func (p Path) Chmod(ctx context.Context, mode os.FileMode) error {
	if p.IsRemote() {
		_, err := p.Host().Run(ctx, fmt.Sprintf("chmod %o %s", chmodMode(mode), p.Bare()))
		return hperrors.WrapAndTrace(err)
	}
	return hperrors.WrapAndTrace(fsys.Chmod(p.Bare(), mode))
}

// Resolve canonicalizes the path. Remotely this runs realpath, falling back
// to the original path when it fails; locally the path is made absolute and
// symlinks are resolved best effort.
func (p Path) Resolve(ctx context.Context) (Path, error) {
	if p.IsRemote() {
		out, err := p.Host().Run(ctx, fmt.Sprintf("realpath %s || echo %s", p.Bare(), p.Bare()))
		if err != nil {
			return Path{}, hperrors.WrapAndTrace(err)
		}
		return On(p.Host(), out), nil
	}

	abs, err := filepath.Abs(p.Bare())
	if err != nil {
		return Path{}, hperrors.WrapAndTrace(err)
	}
	if _, ok := fsys.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
	}
	return On(p.Host(), abs), nil
}

// Glob expands a shell glob pattern relative to the path. Every match comes
// back as a Path on the same host. A pattern with no matches yields an empty
// slice, not an error.
func (p Path) Glob(ctx context.Context, pattern string) ([]Path, error) {
	if p.IsRemote() {
		out, err := p.Host().Run(ctx, fmt.Sprintf("shopt -s extglob && ls -d %s/%s || true", p.Bare(), pattern))
		if err != nil {
			return nil, hperrors.WrapAndTrace(err)
		}
		if out == "" {
			return nil, nil
		}
		return lo.Map(strings.Split(out, "\n"), func(line string, _ int) Path {
			return On(p.Host(), strings.TrimSpace(line))
		}), nil
	}

	matches, err := afero.Glob(fsys, p.Bare()+"/"+pattern)
	if err != nil {
		return nil, hperrors.WrapAndTrace(err)
	}
	return lo.Map(matches, func(match string, _ int) Path {
		return On(p.Host(), match)
	}), nil
}

// IsDir reports whether the path is a directory.
func (p Path) IsDir(ctx context.Context) (bool, error) {
	info, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile reports whether the path is a regular file.
func (p Path) IsFile(ctx context.Context) (bool, error) {
	info, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	return info.IsRegular(), nil
}

// IsSymlink reports whether the path itself is a symbolic link.
func (p Path) IsSymlink(ctx context.Context) (bool, error) {
	info, err := p.Lstat(ctx)
	if err != nil {
		return false, err
	}
	return info.IsSymlink(), nil
}

// IsSocket reports whether the path is a unix socket.
func (p Path) IsSocket(ctx context.Context) (bool, error) {
	info, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	return info.IsSocket(), nil
}

// CopyOptions control CopyTo.
type CopyOptions struct {
	// ContentsOnly copies a directory's contents rather than the directory
	// node itself.
	ContentsOnly bool
}

// CopyTo copies any file or directory to any destination regardless of host.
// The transfer runs through the sync transport on the local machine, which
// understands the combined string form of both endpoints.
func (p Path) CopyTo(ctx context.Context, destination Path, opts CopyOptions) error {
	err := rsync.Sync(ctx, p.String(), destination.String(), rsync.Options{
		ContentsOnly: opts.ContentsOnly,
	})
	return hperrors.WrapAndTrace(err)
}

// MoveOptions control MoveTo.
type MoveOptions struct {
	// ContentsOnly moves a directory's contents rather than the directory
	// node itself.
	ContentsOnly bool

	// IgnoreExisting leaves files that already exist at the destination in
	// place instead of overwriting them.
	IgnoreExisting bool
}

// MoveTo moves any file or directory to any destination regardless of host:
// a sync-with-source-removal through the transport.
func (p Path) MoveTo(ctx context.Context, destination Path, opts MoveOptions) error {
	err := rsync.Sync(ctx, p.String(), destination.String(), rsync.Options{
		ContentsOnly:   opts.ContentsOnly,
		RemoveSource:   true,
		IgnoreExisting: opts.IgnoreExisting,
	})
	return hperrors.WrapAndTrace(err)
}

// Rename moves the path to target, overwriting it if present.
func (p Path) Rename(ctx context.Context, target Path) error {
	return p.Replace(ctx, target)
}

// Replace moves the path to target with possible overwrites. When either
// side is remote the move goes through the sync transport; a purely local
// replace uses the direct rename primitive.
func (p Path) Replace(ctx context.Context, target Path) error {
	if p.IsRemote() || target.IsRemote() {
		return p.MoveTo(ctx, target, MoveOptions{})
	}
	return hperrors.WrapAndTrace(fsys.Rename(p.Bare(), target.Bare()))
}
