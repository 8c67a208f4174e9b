package source

import (
	"context"
	"fmt"
	"os"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

// File reads the dataset from a local CSV file on every Load.
type File struct {
	Path    string
	Options ParseOptions
}

// NewFile returns a File source for path.
func NewFile(path string, opts ParseOptions) *File {
	return &File{Path: path, Options: opts}
}

// Name identifies the source in logs and status output.
func (f *File) Name() string {
	return "file:" + f.Path
}

// Load opens and parses the file. A missing or unreadable file is reported
// as core.ErrSourceUnavailable.
func (f *File) Load(ctx context.Context) ([]core.Record, core.LoadStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.LoadStats{}, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, core.LoadStats{}, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}
	defer file.Close()

	return ParseCSV(&contextReader{ctx: ctx, r: file}, f.Options)
}
