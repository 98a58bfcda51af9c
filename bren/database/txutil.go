package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const DefaultTxTimeout = 30 * time.Second

// TxOptions configures transaction behavior
type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
}

// TxManager provides standardized transaction utilities for ledger operations
type TxManager struct {
	db *bun.DB
}

func NewTxManager(db *bun.DB) *TxManager {
	return &TxManager{db: db}
}

// StandardTxOptions returns default transaction options
func StandardTxOptions() *TxOptions {
	return &TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        DefaultTxTimeout,
	}
}

// SerializableTxOptions returns serializable isolation for allowance-critical
// read-then-write sequences.
func SerializableTxOptions() *TxOptions {
	return &TxOptions{
		IsolationLevel: sql.LevelSerializable,
		Timeout:        DefaultTxTimeout,
	}
}

// WithTransaction executes fn within a database transaction
func (tm *TxManager) WithTransaction(ctx context.Context, opts *TxOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = StandardTxOptions()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := tm.db.BeginTx(timeoutCtx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
