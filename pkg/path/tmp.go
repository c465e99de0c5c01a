package path

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	hperrors "github.com/hostpath/hostpath/pkg/errors"
)

// WithTempPath hands fn a Path bound to a freshly created, uniquely named
// local file and removes the file when fn returns, error or not. Remote
// reads and writes stage their bytes through here.
func WithTempPath(fn func(Path) error) error {
	name := filepath.Join(os.TempDir(), "hostpath-"+uuid.NewString())
	f, err := fsys.Create(name)
	if err != nil {
		return hperrors.WrapAndTrace(err, "creating staging file")
	}
	if err := f.Close(); err != nil {
		return hperrors.WrapAndTrace(err)
	}

	err = fn(Local(name))

	if rmErr := fsys.Remove(name); rmErr != nil && !os.IsNotExist(rmErr) {
		err = multierror.Append(err, hperrors.Wrap(rmErr, "removing staging file")).ErrorOrNil()
	}
	return err
}
