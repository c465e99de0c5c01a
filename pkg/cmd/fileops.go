package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	hperrors "github.com/hostpath/hostpath/pkg/errors"
	"github.com/hostpath/hostpath/pkg/path"
)

func newCmdExists() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>",
		Short: "Check whether a path exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			ok, err := p.Exists(ctx)
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("true"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), color.RedString("false"))
			}
			return nil
		},
	}
}

func newCmdCat() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			text, err := p.ReadText(ctx)
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newCmdCp() *cobra.Command {
	var contentsOnly bool

	cmd := &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a file or directory between any two hosts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			dst, err := path.New(args[1])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			return hperrors.WrapAndTrace(src.CopyTo(ctx, dst, path.CopyOptions{ContentsOnly: contentsOnly}))
		},
	}
	cmd.Flags().BoolVar(&contentsOnly, "contents-only", false, "copy directory contents, not the directory itself")
	return cmd
}

func newCmdMv() *cobra.Command {
	var (
		contentsOnly   bool
		ignoreExisting bool
	)

	cmd := &cobra.Command{
		Use:   "mv <src> <dst>",
		Short: "Move a file or directory between any two hosts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			dst, err := path.New(args[1])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			return hperrors.WrapAndTrace(src.MoveTo(ctx, dst, path.MoveOptions{
				ContentsOnly:   contentsOnly,
				IgnoreExisting: ignoreExisting,
			}))
		},
	}
	cmd.Flags().BoolVar(&contentsOnly, "contents-only", false, "move directory contents, not the directory itself")
	cmd.Flags().BoolVar(&ignoreExisting, "ignore-existing", false, "keep files already present at the destination")
	return cmd
}

func newCmdLs() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path> [pattern]",
		Short: "List entries matching a glob pattern",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			pattern := "*"
			if len(args) == 2 {
				pattern = args[1]
			}
			ctx, cancel := opContext()
			defer cancel()

			matches, err := p.Glob(ctx, pattern)
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			for _, match := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), match)
			}
			return nil
		},
	}
}

func newCmdStat() *cobra.Command {
	var noFollow bool

	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Print file metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			var info path.FileInfo
			if noFollow {
				info, err = p.Lstat(ctx)
			} else {
				info, err = p.Stat(ctx)
			}
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}

			label := color.New(color.FgCyan).SprintFunc()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", label("path:"), p)
			fmt.Fprintf(out, "%s %06o\n", label("mode:"), info.Mode)
			fmt.Fprintf(out, "%s %d\n", label("size:"), info.Size)
			fmt.Fprintf(out, "%s %d/%d\n", label("owner:"), info.UID, info.GID)
			fmt.Fprintf(out, "%s %d\n", label("nlink:"), info.Nlink)
			fmt.Fprintf(out, "%s %d %d %d\n", label("atime/mtime/ctime:"), info.Atime, info.Mtime, info.Ctime)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noFollow, "no-follow", false, "do not follow symlinks")
	return cmd
}

func newCmdMkdir() *cobra.Command {
	var (
		parents bool
		existOK bool
	)

	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			return hperrors.WrapAndTrace(p.Mkdir(ctx, path.MkdirOptions{
				Parents: parents,
				ExistOK: existOK,
			}))
		},
	}
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent directories")
	cmd.Flags().BoolVar(&existOK, "exist-ok", false, "do not fail when the directory exists")
	return cmd
}

func newCmdRm() *cobra.Command {
	var missingOK bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			return hperrors.WrapAndTrace(p.Unlink(ctx, missingOK))
		},
	}
	cmd.Flags().BoolVarP(&missingOK, "force", "f", false, "ignore a missing path")
	return cmd
}

func newCmdTouch() *cobra.Command {
	return &cobra.Command{
		Use:   "touch <path>",
		Short: "Create a file or update its modification time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			return hperrors.WrapAndTrace(p.Touch(ctx))
		},
	}
}

func newCmdResolve() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print the canonical form of a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.New(args[0])
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			ctx, cancel := opContext()
			defer cancel()

			resolved, err := p.Resolve(ctx)
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resolved)
			return nil
		},
	}
}
