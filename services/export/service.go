package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sendtg-export/lib/assets"
	"sendtg-export/lib/browser"
	"sendtg-export/lib/scrapers/sendtg"
)

type Format string

const (
	FormatRaw    Format = "raw"
	FormatKoinly Format = "koinly"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatRaw, FormatKoinly:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q, want raw or koinly", s)
}

var (
	// ErrWrongSite means the attached tab is not on the site at all; the
	// run never starts.
	ErrWrongSite = errors.New("attached tab is not on " + sendtg.Host)
	// ErrNoTransactions means the scan phase converged on an empty set.
	ErrNoTransactions = errors.New("no transactions found")
	// ErrStopped is the user-cancellation outcome. Not a failure, but no
	// CSV is produced either.
	ErrStopped = errors.New("export stopped by user")
)

// Sink persists a finished export. The CLI writes a file; tests capture
// the bytes.
type Sink interface {
	Save(filename string, data []byte) error
}

// DirSink writes exports into a directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Save(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(s.Dir, filename), data, 0644)
}

// Callbacks surface run state for UI display. Nil fields are skipped.
type Callbacks struct {
	// Phase is called when the run enters a new phase: "scan",
	// "details", "csv".
	Phase func(name string)
	// Progress reports (current, total) within a phase; total is zero
	// while scanning since the final count is unknown.
	Progress func(current, total int)
}

func (c Callbacks) phase(name string) {
	if c.Phase != nil {
		c.Phase(name)
	}
}

func (c Callbacks) progress(current, total int) {
	if c.Progress != nil {
		c.Progress(current, total)
	}
}

// Result describes a completed export.
type Result struct {
	Filename     string
	Transactions int
	Enriched     int
	// TypeCounts tallies transactions per type slug.
	TypeCounts map[string]int
	// TypeAmounts holds the most recently scanned amount per type slug,
	// for display purposes only.
	TypeAmounts map[string]sendtg.Amount
}

// Service runs the scan → enrich → serialize → save pipeline against one
// attached tab.
type Service struct {
	Page      browser.Page
	Assets    assets.Registry
	Sink      Sink
	Callbacks Callbacks

	// Collector and Enricher carry timing overrides; their Page and
	// BaseURL are filled in by the service.
	Collector Collector
	Enricher  Enricher

	// NavigateSettle is the wait after auto-navigating to the list page.
	NavigateSettle time.Duration

	// Now stamps the output filename; defaults to time.Now.
	Now func() time.Time
}

// Export runs one full export. The error taxonomy is deliberate: wrong
// site and empty page are precondition failures, a cancelled ctx maps to
// ErrStopped, anything else aborted the run. In every non-nil-error case
// nothing has been written to the sink.
func (s *Service) Export(ctx context.Context, format Format) (Result, error) {
	if err := s.checkPrecondition(ctx); err != nil {
		return Result{}, err
	}

	s.Callbacks.phase("scan")
	collector := s.Collector
	collector.Page = s.Page
	txs, err := collector.Collect(ctx, func(count int) {
		s.Callbacks.progress(count, 0)
	})
	if err != nil {
		return Result{}, s.mapCancel(err)
	}
	if len(txs) == 0 {
		return Result{}, ErrNoTransactions
	}
	slog.InfoContext(ctx, "scan complete", "transactions", len(txs))

	s.Callbacks.phase("details")
	var needDetails []sendtg.Summary
	for _, tx := range txs {
		if sendtg.NeedsDetails(tx.TxType) {
			needDetails = append(needDetails, tx)
		}
	}
	enricher := s.Enricher
	enricher.Page = s.Page
	enricher.BaseURL = sendtg.BaseURL
	details, err := enricher.Enrich(ctx, needDetails, s.Callbacks.progress)
	if err != nil {
		// cancellation discards everything collected so far
		return Result{}, s.mapCancel(err)
	}

	s.Callbacks.phase("csv")
	var csv string
	switch format {
	case FormatRaw:
		csv = MarshalRawCSV(BuildRawRows(txs, details))
	case FormatKoinly:
		csv = MarshalKoinlyCSV(BuildKoinlyRows(txs, details, s.Assets))
	default:
		return Result{}, fmt.Errorf("unknown format %q", format)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	filename := fmt.Sprintf("sendtg_%s_%s.csv", format, now().UTC().Format("2006-01-02"))

	err = s.Sink.Save(filename, []byte(csv))
	if err != nil {
		return Result{}, fmt.Errorf("save export: %w", err)
	}

	result := Result{
		Filename:     filename,
		Transactions: len(txs),
		Enriched:     len(details),
		TypeCounts:   map[string]int{},
		TypeAmounts:  map[string]sendtg.Amount{},
	}
	for _, tx := range txs {
		result.TypeCounts[tx.TxType]++
		if len(tx.Amounts) > 0 {
			result.TypeAmounts[tx.TxType] = tx.Amounts[0]
		}
	}
	return result, nil
}

func (s *Service) checkPrecondition(ctx context.Context) error {
	location, err := s.Page.Location(ctx)
	if err != nil {
		return fmt.Errorf("read tab location: %w", err)
	}
	if !strings.Contains(location, sendtg.Host) {
		return ErrWrongSite
	}
	if !strings.Contains(location, sendtg.ListPath) {
		slog.InfoContext(ctx, "navigating to transaction list", "from", location)
		if err := s.Page.Navigate(ctx, sendtg.ListURL); err != nil {
			return fmt.Errorf("navigate to transaction list: %w", err)
		}
		settle := s.NavigateSettle
		if settle == 0 {
			settle = 2 * time.Second
		}
		if err := sleep(ctx, settle); err != nil {
			return s.mapCancel(err)
		}
	}
	return nil
}

func (s *Service) mapCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return ErrStopped
	}
	return err
}
