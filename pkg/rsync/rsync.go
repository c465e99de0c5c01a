// Package rsync drives the file-synchronization transport used for copies
// and moves. rsync always runs on the local host: it understands the same
// "host:path" endpoint grammar as this library, so a single invocation
// covers local-to-local, local-to-remote, remote-to-local and
// remote-to-remote transfers alike.
package rsync

import (
	"context"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/hostpath/hostpath/pkg/command"
	"github.com/hostpath/hostpath/pkg/config"
	"github.com/hostpath/hostpath/pkg/host"
)

// Options control a single transfer. Archive mode is always on.
type Options struct {
	// ContentsOnly appends a trailing separator to the source so a
	// directory's contents are transferred instead of the directory node.
	ContentsOnly bool

	// RemoveSource deletes source files after a successful transfer,
	// turning the copy into a move.
	RemoveSource bool

	// IgnoreExisting skips files that already exist at the destination.
	IgnoreExisting bool
}

// Command renders the rsync invocation for the given endpoints, each in
// combined "host:path" string form.
func Command(src, dst string, opts Options) string {
	args := []string{config.NewConstants().GetRsyncBinary(), "-a"}
	if opts.RemoveSource {
		args = append(args, "--remove-source-files")
	}
	if opts.IgnoreExisting {
		args = append(args, "--ignore-existing")
	}
	if opts.ContentsOnly {
		src += "/"
	}
	args = append(args, shellescape.Quote(src), shellescape.Quote(dst))
	return strings.Join(args, " ")
}

// A read-only destination filesystem surfaces as a permission error, on top
// of the stock classifications.
var classifier = command.NewClassifier(command.Rule{
	Pattern: "Read-only file system",
	Err:     command.ErrPermissionDenied,
})

// Sync performs the transfer. No implicit timeout applies; bound the context
// to limit long transfers.
func Sync(ctx context.Context, src, dst string, opts Options) error {
	_, err := host.Local{}.Run(ctx, Command(src, dst, opts), host.WithClassifier(classifier))
	return err
}
