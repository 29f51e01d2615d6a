package collector

import (
	"context"
	"fmt"
	"time"

	"SheetSentinel/internal/model"
)

// Fetcher defines the interface for fetching the raw price table.
type Fetcher interface {
	FetchTable(ctx context.Context) (*model.Table, error)
	Name() string
}

// NewFetcher picks the data source: a local file when path is set,
// otherwise the spreadsheet's CSV export.
func NewFetcher(path, sheet string, gid int, proxyURL string, timeout time.Duration) (Fetcher, error) {
	switch {
	case path != "":
		return NewFileFetcher(path), nil
	case sheet != "":
		return NewSheetsFetcher(sheet, gid, proxyURL, timeout), nil
	default:
		return nil, fmt.Errorf("no data source configured")
	}
}
