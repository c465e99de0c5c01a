package path

import (
	"context"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hostpath/hostpath/pkg/command"
	"github.com/hostpath/hostpath/pkg/host"
)

// recorder captures every command dispatched to a fake host and scripts the
// responses. fakeHost itself stays a comparable struct so Path equality keeps
// working in tests.
type recorder struct {
	cmds    []string
	handler func(cmd string) (string, error)
}

type fakeHost struct {
	rec *recorder
}

var _ host.Host = fakeHost{}

func (fakeHost) IsRemote() bool { return true }

func (fakeHost) Prefix() string { return "fake:" }

func (f fakeHost) Run(_ context.Context, cmd string, _ ...host.RunOption) (string, error) {
	f.rec.cmds = append(f.rec.cmds, cmd)
	if f.rec.handler != nil {
		return f.rec.handler(cmd)
	}
	return "", nil
}

func newFakeHost(handler func(cmd string) (string, error)) (fakeHost, *recorder) {
	rec := &recorder{handler: handler}
	return fakeHost{rec: rec}, rec
}

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := fsys
	mem := afero.NewMemMapFs()
	SetFs(mem)
	t.Cleanup(func() { SetFs(prev) })
	return mem
}

func installFakeExecutor(t *testing.T, handler func(cmd string) (string, error)) *recorder {
	t.Helper()
	rec := &recorder{handler: handler}
	prev := command.Default
	command.Default = executorFunc(func(_ context.Context, cmd string) (string, error) {
		rec.cmds = append(rec.cmds, cmd)
		if rec.handler != nil {
			return rec.handler(cmd)
		}
		return "", nil
	})
	t.Cleanup(func() { command.Default = prev })
	return rec
}

type executorFunc func(ctx context.Context, cmd string) (string, error)

func (f executorFunc) Run(ctx context.Context, cmd string) (string, error) {
	return f(ctx, cmd)
}

func ctx() context.Context { return context.Background() }

func TestExistsLocal(t *testing.T) {
	mem := useMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "/here.txt", []byte("x"), 0o644))

	ok, err := Local("/here.txt").Exists(ctx())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Local("/missing.txt").Exists(ctx())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExistsRemote(t *testing.T) {
	h, rec := newFakeHost(func(string) (string, error) { return "", nil })

	ok, err := On(h, "/here.txt").Exists(ctx())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"[[ -f /here.txt ]] || echo no"}, rec.cmds)

	h, _ = newFakeHost(func(string) (string, error) { return "no", nil })
	ok, err = On(h, "/missing.txt").Exists(ctx())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReadWriteLocal(t *testing.T) {
	useMemFs(t)
	p := Local("/data/file.txt")

	require.NoError(t, Local("/data").Mkdir(ctx(), MkdirOptions{}))
	require.NoError(t, p.WriteText(ctx(), "hello"))

	text, err := p.ReadText(ctx())
	require.NoError(t, err)
	require.Equal(t, "hello", text)

	data, err := p.ReadBytes(ctx())
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestReadLocalMissing(t *testing.T) {
	useMemFs(t)

	_, err := Local("/nope").ReadText(ctx())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadTextRemote(t *testing.T) {
	h, rec := newFakeHost(func(string) (string, error) { return "contents", nil })

	text, err := On(h, "/etc/hostname").ReadText(ctx())
	require.NoError(t, err)
	require.Equal(t, "contents", text)
	require.Equal(t, []string{"cat /etc/hostname"}, rec.cmds)
}

func TestMkdirLocal(t *testing.T) {
	mem := useMemFs(t)

	require.NoError(t, Local("/a").Mkdir(ctx(), MkdirOptions{}))
	ok, err := afero.DirExists(mem, "/a")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, Local("/x/y/z").Mkdir(ctx(), MkdirOptions{Parents: true}))

	// recreating is an error unless ExistOK
	require.Error(t, Local("/a").Mkdir(ctx(), MkdirOptions{}))
	require.NoError(t, Local("/a").Mkdir(ctx(), MkdirOptions{ExistOK: true}))
	require.Error(t, Local("/x/y/z").Mkdir(ctx(), MkdirOptions{Parents: true}))
	require.NoError(t, Local("/x/y/z").Mkdir(ctx(), MkdirOptions{Parents: true, ExistOK: true}))
}

func TestMkdirRemote(t *testing.T) {
	h, rec := newFakeHost(nil)
	require.NoError(t, On(h, "/a/b").Mkdir(ctx(), MkdirOptions{}))
	require.NoError(t, On(h, "/a/b").Mkdir(ctx(), MkdirOptions{Parents: true}))
	require.NoError(t, On(h, "/a/b").Mkdir(ctx(), MkdirOptions{Parents: true, ExistOK: true}))

	require.Equal(t, []string{
		"mkdir /a/b",
		"mkdir -p /a/b",
		"[[ -f /a/b ]] || mkdir -p /a/b",
	}, rec.cmds)
}

func TestUnlinkLocal(t *testing.T) {
	mem := useMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "/f", []byte("x"), 0o644))

	require.NoError(t, Local("/f").Unlink(ctx(), false))
	require.Error(t, Local("/f").Unlink(ctx(), false))
	require.NoError(t, Local("/f").Unlink(ctx(), true))
}

func TestUnlinkRemote(t *testing.T) {
	h, rec := newFakeHost(nil)
	require.NoError(t, On(h, "/f").Unlink(ctx(), false))
	require.NoError(t, On(h, "/f").Unlink(ctx(), true))
	require.Equal(t, []string{"rm /f", "rm -f /f"}, rec.cmds)
}

func TestTouch(t *testing.T) {
	mem := useMemFs(t)

	require.NoError(t, Local("/f").Touch(ctx()))
	ok, err := afero.Exists(mem, "/f")
	require.NoError(t, err)
	require.True(t, ok)

	// touching an existing file keeps its contents
	require.NoError(t, afero.WriteFile(mem, "/g", []byte("keep"), 0o644))
	require.NoError(t, Local("/g").Touch(ctx()))
	data, err := afero.ReadFile(mem, "/g")
	require.NoError(t, err)
	require.Equal(t, []byte("keep"), data)

	h, rec := newFakeHost(nil)
	require.NoError(t, On(h, "/f").Touch(ctx()))
	require.Equal(t, []string{"touch /f"}, rec.cmds)
}

func TestChmod(t *testing.T) {
	mem := useMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "/f", []byte("x"), 0o600))

	require.NoError(t, Local("/f").Chmod(ctx(), 0o755))
	fi, err := mem.Stat("/f")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), fi.Mode().Perm())

	h, rec := newFakeHost(nil)
	require.NoError(t, On(h, "/f").Chmod(ctx(), 0o644))
	require.Equal(t, []string{"chmod 644 /f"}, rec.cmds)
}

func TestChmodRemoteKeepsSpecialBits(t *testing.T) {
	h, rec := newFakeHost(nil)

	require.NoError(t, On(h, "/f").Chmod(ctx(), os.FileMode(0o755)|os.ModeSetuid|os.ModeSticky))
	require.NoError(t, On(h, "/d").Chmod(ctx(), os.FileMode(0o770)|os.ModeSetgid))

	require.Equal(t, []string{"chmod 5755 /f", "chmod 2770 /d"}, rec.cmds)
}

func TestSymlinkToHostMismatch(t *testing.T) {
	h, _ := newFakeHost(nil)
	err := On(h, "/link").SymlinkTo(ctx(), Local("/target"))
	require.ErrorIs(t, err, ErrHostMismatch)
}

func TestSymlinkToRemote(t *testing.T) {
	h, rec := newFakeHost(nil)
	require.NoError(t, On(h, "/link").SymlinkTo(ctx(), On(h, "/target")))
	require.Equal(t, []string{"ln -s /target /link"}, rec.cmds)
}

func TestSymlinkToUnsupportedFs(t *testing.T) {
	useMemFs(t)
	err := Local("/link").SymlinkTo(ctx(), Local("/target"))
	require.ErrorIs(t, err, command.ErrUnsupported)
}

func TestStatRemote(t *testing.T) {
	h, rec := newFakeHost(func(string) (string, error) {
		return "81a4 100 10 1 1000 1000 4096 1690000000 1690000001 1690000002", nil
	})

	info, err := On(h, "/f").Stat(ctx())
	require.NoError(t, err)
	require.Equal(t, []string{"stat -L --format='%f %i %d %h %u %g %s %X %Y %W' /f"}, rec.cmds)
	require.Equal(t, uint32(0o100644), info.Mode)
	require.Equal(t, uint64(100), info.Ino)
	require.Equal(t, int64(4096), info.Size)
	require.Equal(t, int64(1690000001), info.Mtime)

	_, err = On(h, "/f").Lstat(ctx())
	require.NoError(t, err)
	require.Equal(t, "stat --format='%f %i %d %h %u %g %s %X %Y %W' /f", rec.cmds[1])
}

func TestStatLocal(t *testing.T) {
	mem := useMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "/f", []byte("12345"), 0o644))

	info, err := Local("/f").Stat(ctx())
	require.NoError(t, err)
	require.True(t, info.IsRegular())
	require.Equal(t, int64(5), info.Size)

	require.NoError(t, mem.Mkdir("/d", 0o755))
	isDir, err := Local("/d").IsDir(ctx())
	require.NoError(t, err)
	require.True(t, isDir)

	isFile, err := Local("/f").IsFile(ctx())
	require.NoError(t, err)
	require.True(t, isFile)
}

func TestIsSymlinkUsesLstat(t *testing.T) {
	calls := 0
	h, _ := newFakeHost(func(cmd string) (string, error) {
		calls++
		require.NotContains(t, cmd, "-L")
		return "a1ff 1 1 1 0 0 10 1 2 3", nil
	})

	isLink, err := On(h, "/link").IsSymlink(ctx())
	require.NoError(t, err)
	require.True(t, isLink)
	require.Equal(t, 1, calls)
}

func TestResolveRemote(t *testing.T) {
	h, rec := newFakeHost(func(string) (string, error) { return "/real/place", nil })

	resolved, err := On(h, "~/link").Resolve(ctx())
	require.NoError(t, err)
	require.Equal(t, []string{"realpath ~/link || echo ~/link"}, rec.cmds)
	require.True(t, resolved.Equal(On(h, "/real/place")))
}

func TestGlobRemote(t *testing.T) {
	h, rec := newFakeHost(func(string) (string, error) {
		return "/dir/a.txt\n/dir/b.txt", nil
	})

	matches, err := On(h, "/dir").Glob(ctx(), "*.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"shopt -s extglob && ls -d /dir/*.txt || true"}, rec.cmds)
	require.Len(t, matches, 2)
	require.True(t, matches[0].Equal(On(h, "/dir/a.txt")))
	require.True(t, matches[1].Equal(On(h, "/dir/b.txt")))
}

func TestGlobRemoteNoMatches(t *testing.T) {
	h, _ := newFakeHost(func(string) (string, error) { return "", nil })

	matches, err := On(h, "/dir").Glob(ctx(), "*.txt")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestGlobLocal(t *testing.T) {
	mem := useMemFs(t)
	require.NoError(t, mem.Mkdir("/dir", 0o755))
	require.NoError(t, afero.WriteFile(mem, "/dir/a.txt", nil, 0o644))
	require.NoError(t, afero.WriteFile(mem, "/dir/b.log", nil, 0o644))

	matches, err := Local("/dir").Glob(ctx(), "*.txt")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.True(t, matches[0].Equal(Local("/dir/a.txt")))
}

func TestCopyToUsesRsync(t *testing.T) {
	rec := installFakeExecutor(t, nil)

	src := Local("/src/dir")
	dst := MustNew("there:/dst")
	require.NoError(t, src.CopyTo(ctx(), dst, CopyOptions{}))
	require.NoError(t, src.CopyTo(ctx(), dst, CopyOptions{ContentsOnly: true}))

	require.Equal(t, []string{
		"rsync -a /src/dir there:/dst",
		"rsync -a /src/dir/ there:/dst",
	}, rec.cmds)
}

func TestMoveToUsesRsync(t *testing.T) {
	rec := installFakeExecutor(t, nil)

	src := MustNew("there:/src")
	dst := Local("/dst")
	require.NoError(t, src.MoveTo(ctx(), dst, MoveOptions{}))
	require.NoError(t, src.MoveTo(ctx(), dst, MoveOptions{IgnoreExisting: true}))

	require.Equal(t, []string{
		"rsync -a --remove-source-files there:/src /dst",
		"rsync -a --remove-source-files --ignore-existing there:/src /dst",
	}, rec.cmds)
}

func TestReplaceLocal(t *testing.T) {
	mem := useMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "/from", []byte("x"), 0o644))

	require.NoError(t, Local("/from").Replace(ctx(), Local("/to")))
	ok, err := afero.Exists(mem, "/from")
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = afero.Exists(mem, "/to")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestReplaceCrossHostGoesThroughRsync(t *testing.T) {
	rec := installFakeExecutor(t, nil)

	require.NoError(t, Local("/from").Replace(ctx(), MustNew("there:/to")))
	require.Equal(t, []string{"rsync -a --remove-source-files /from there:/to"}, rec.cmds)
}

func TestWriteBytesRemoteStagesThroughTemp(t *testing.T) {
	mem := useMemFs(t)
	rec := installFakeExecutor(t, nil)

	require.NoError(t, MustNew("there:/remote/file").WriteBytes(ctx(), []byte("payload")))

	require.Len(t, rec.cmds, 1)
	require.Contains(t, rec.cmds[0], "rsync -a ")
	require.Contains(t, rec.cmds[0], " there:/remote/file")

	// staging file is gone afterwards
	entries, err := afero.ReadDir(mem, os.TempDir())
	if err == nil {
		require.Empty(t, entries)
	}
}

func TestWithTempPathCleansUp(t *testing.T) {
	mem := useMemFs(t)

	var staged string
	err := WithTempPath(func(p Path) error {
		staged = p.Bare()
		ok, err := afero.Exists(mem, staged)
		require.NoError(t, err)
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, staged)

	ok, err := afero.Exists(mem, staged)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWithTempPathPropagatesError(t *testing.T) {
	useMemFs(t)

	boom := os.ErrClosed
	err := WithTempPath(func(Path) error { return boom })
	require.ErrorIs(t, err, boom)
}
