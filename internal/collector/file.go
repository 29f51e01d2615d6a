package collector

import (
	"context"
	"fmt"
	"os"

	"SheetSentinel/internal/model"
)

// FileFetcher reads a local CSV export.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a new FileFetcher.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchTable(_ context.Context) (*model.Table, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()
	return ParseCSV(fh)
}
