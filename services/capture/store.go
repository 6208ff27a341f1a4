// Package capture is the opportunistic sibling of the export pipeline: it
// watches the attached tab and squirrels away detail-page records as the
// user browses, keyed by transaction id. The export pipeline never reads
// this store, it always fetches fresh.
package capture

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"sendtg-export/lib/scrapers/sendtg"
	"sendtg-export/services/capture/db"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Open opens (creating if needed) a capture database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(db.Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Merge records a capture for a transaction id. Fields the new capture is
// missing keep whatever a previous capture saw; fresh non-empty fields win.
func (s Store) Merge(ctx context.Context, id, txType string, d sendtg.Details) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transaction_details
			(id, tx_type, fee_amount, fee_currency, network, net_amount, to_address, tx_hash, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tx_type = CASE WHEN excluded.tx_type != '' THEN excluded.tx_type ELSE tx_type END,
			fee_amount = CASE WHEN excluded.fee_amount != '' THEN excluded.fee_amount ELSE fee_amount END,
			fee_currency = CASE WHEN excluded.fee_currency != '' THEN excluded.fee_currency ELSE fee_currency END,
			network = CASE WHEN excluded.network != '' THEN excluded.network ELSE network END,
			net_amount = CASE WHEN excluded.net_amount != '' THEN excluded.net_amount ELSE net_amount END,
			to_address = CASE WHEN excluded.to_address != '' THEN excluded.to_address ELSE to_address END,
			tx_hash = CASE WHEN excluded.tx_hash != '' THEN excluded.tx_hash ELSE tx_hash END,
			captured_at = excluded.captured_at
	`,
		id, txType,
		d.FeeAmount, d.FeeCurrency, d.Network, d.NetAmount, d.ToAddress, d.TxHash,
		time.Now().Unix(),
	)
	return err
}

// Get returns the capture for an id, reporting whether one exists.
func (s Store) Get(ctx context.Context, id string) (sendtg.Details, bool, error) {
	var d sendtg.Details
	err := s.db.QueryRowContext(ctx, `
		SELECT fee_amount, fee_currency, network, net_amount, to_address, tx_hash
		FROM transaction_details WHERE id = ?
	`, id).Scan(
		&d.FeeAmount, &d.FeeCurrency, &d.Network,
		&d.NetAmount, &d.ToAddress, &d.TxHash,
	)
	if err == sql.ErrNoRows {
		return sendtg.Details{}, false, nil
	}
	if err != nil {
		return sendtg.Details{}, false, err
	}
	return d, true, nil
}

// Count reports how many transactions have captures.
func (s Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transaction_details`).Scan(&n)
	return n, err
}
