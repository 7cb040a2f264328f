package transactionlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ITransactionLog = (*Table)(nil)

// ErrAlreadyFinalized means MarkStatus targeted a record that is no longer
// PENDING. Finalization happens exactly once.
var ErrAlreadyFinalized = errors.New("transaction already finalized")

const selectColumns = `id, kind, amount, source_account, COALESCE(destination_account, ''), status, COALESCE(idempotency_key, ''), created_at`

// Table provides access to the transactions table.
type Table struct {
	pool *pgxpool.Pool
}

func NewTable(pool *pgxpool.Pool) *Table {
	return &Table{pool: pool}
}

// Append writes a new transaction record.
func (t *Table) Append(ctx context.Context, create *TransactionCreate) error {
	_, err := t.pool.Exec(ctx, `
		INSERT INTO transactions (id, kind, amount, source_account, destination_account, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8)`,
		create.ID, string(create.Kind), create.Amount, create.SourceAccount,
		create.DestinationAccount, string(create.Status), create.IdempotencyKey, create.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("transactionlog: append %s: %w", create.ID, err)
	}
	return nil
}

// MarkStatus finalizes a PENDING record. It refuses to touch a record that
// was already finalized.
func (t *Table) MarkStatus(ctx context.Context, id string, status Status) error {
	tag, err := t.pool.Exec(ctx, `
		UPDATE transactions SET status = $2 WHERE id = $1 AND status = 'PENDING'`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("transactionlog: mark %s %s: %w", id, status, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyFinalized
	}
	return nil
}

// ListByAccount returns every transaction where the account appears as
// source or destination, in insertion order.
func (t *Table) ListByAccount(ctx context.Context, accountNumber string) ([]*Transaction, error) {
	rows, err := t.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM transactions
		WHERE source_account = $1 OR destination_account = $1
		ORDER BY created_at ASC, id ASC`,
		accountNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("transactionlog: list for %s: %w", accountNumber, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// FindByIdempotencyKey returns the transaction recorded under the key, or
// nil when the key has not been seen.
func (t *Table) FindByIdempotencyKey(ctx context.Context, key string) (*Transaction, error) {
	row := t.pool.QueryRow(ctx, `
		SELECT `+selectColumns+`
		FROM transactions
		WHERE idempotency_key = $1`,
		key,
	)

	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("transactionlog: find key %s: %w", key, err)
	}
	return txn, nil
}

// ListPending returns PENDING records created at or before olderThan, for
// startup reconciliation.
func (t *Table) ListPending(ctx context.Context, olderThan time.Time) ([]*Transaction, error) {
	rows, err := t.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM transactions
		WHERE status = 'PENDING' AND created_at <= $1
		ORDER BY created_at ASC`,
		olderThan,
	)
	if err != nil {
		return nil, fmt.Errorf("transactionlog: list pending: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*Transaction, error) {
	var result []*Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var txn Transaction
	var kind, status string
	err := row.Scan(&txn.ID, &kind, &txn.Amount, &txn.SourceAccount,
		&txn.DestinationAccount, &status, &txn.IdempotencyKey, &txn.CreatedAt)
	if err != nil {
		return nil, err
	}
	txn.Kind = Kind(kind)
	txn.Status = Status(status)
	return &txn, nil
}
