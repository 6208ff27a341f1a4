package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sendtg-export/lib/assets"
	"sendtg-export/lib/browser/fixture"
	"sendtg-export/lib/scrapers/sendtg"
	"sendtg-export/lib/telemetry"
)

type memorySink struct {
	filename string
	data     []byte
	saves    int
}

func (s *memorySink) Save(filename string, data []byte) error {
	s.filename = filename
	s.data = data
	s.saves++
	return nil
}

func testService(page *fixture.Page, sink Sink) *Service {
	return &Service{
		Page:   page,
		Assets: assets.Default(),
		Sink:   sink,
		Collector: Collector{
			ScrollWait: time.Nanosecond,
			BottomWait: time.Nanosecond,
			SweepWait:  time.Nanosecond,
			FinalWait:  time.Nanosecond,
		},
		Enricher:       Enricher{SettleDelay: time.Nanosecond},
		NavigateSettle: time.Nanosecond,
		Now: func() time.Time {
			return time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)
		},
	}
}

func TestExportKoinly(t *testing.T) {
	defer telemetry.SetupForTesting("test:services/export")()

	page, _ := enricherFixture()
	sink := &memorySink{}

	var phases []string
	service := testService(page, sink)
	service.Callbacks = Callbacks{
		Phase: func(name string) { phases = append(phases, name) },
	}

	result, err := service.Export(context.Background(), FormatKoinly)
	require.NoError(t, err)

	require.Equal(t, "sendtg_koinly_2024-03-20.csv", result.Filename)
	require.Equal(t, 5, result.Transactions)
	require.Equal(t, 2, result.Enriched)
	require.Equal(t, map[string]int{
		"withdrawal": 1, "deposit": 1, "swap": 1, "check": 1, "invoice": 1,
	}, result.TypeCounts)
	require.Equal(t, []string{"scan", "details", "csv"}, phases)

	lines := strings.Split(string(sink.data), "\n")
	require.Len(t, lines, 6)
	require.True(t, strings.HasPrefix(lines[0], "Date,Sent Amount"))
	// rows come out date-ascending; the withdrawal (15 Mar) is last and
	// uses the enriched net amount
	require.Contains(t, lines[5], "2024-03-15 09:30 UTC,9.5,TON")
	require.Contains(t, lines[5], "transfer")
}

func TestExportRaw(t *testing.T) {
	page, _ := enricherFixture()
	sink := &memorySink{}

	result, err := testService(page, sink).Export(context.Background(), FormatRaw)
	require.NoError(t, err)
	require.Equal(t, "sendtg_raw_2024-03-20.csv", result.Filename)

	lines := strings.Split(string(sink.data), "\n")
	require.Len(t, lines, 6)
	require.True(t, strings.HasPrefix(lines[0], "ID,Date,Type,TX Type"))
	require.Contains(t, string(sink.data), "https://app.send.tg/transactions/withdrawal/w1")
}

func TestExportWrongSite(t *testing.T) {
	page := &fixture.Page{ListURL: "https://example.com/whatever"}
	sink := &memorySink{}

	_, err := testService(page, sink).Export(context.Background(), FormatKoinly)
	require.ErrorIs(t, err, ErrWrongSite)
	require.Zero(t, sink.saves)
}

func TestExportAutoNavigatesToList(t *testing.T) {
	page, _ := enricherFixture()
	sink := &memorySink{}

	// park the tab elsewhere on the site first
	require.NoError(t, page.Navigate(context.Background(), sendtg.BaseURL+"/settings"))

	_, err := testService(page, sink).Export(context.Background(), FormatKoinly)
	require.NoError(t, err)
	require.Equal(t, sendtg.ListURL, page.Navigations()[1])
}

func TestExportNoTransactions(t *testing.T) {
	page := &fixture.Page{ListURL: sendtg.ListURL}
	sink := &memorySink{}

	_, err := testService(page, sink).Export(context.Background(), FormatKoinly)
	require.ErrorIs(t, err, ErrNoTransactions)
	require.Zero(t, sink.saves)
}

func TestExportStopped(t *testing.T) {
	page, _ := enricherFixture()
	sink := &memorySink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testService(page, sink).Export(ctx, FormatKoinly)
	require.ErrorIs(t, err, ErrStopped)
	// a stopped run never produces a file
	require.Zero(t, sink.saves)
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("raw")
	require.NoError(t, err)
	require.Equal(t, FormatRaw, format)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}
