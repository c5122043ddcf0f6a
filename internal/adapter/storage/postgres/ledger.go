package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbon-offset-registry/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

// AccountLedger implements ports.ValueLedger on an accounts table. The ledger
// is an external collaborator with its own commit boundary, so every call runs
// in its own transaction and its own timeout; a failed call leaves both the
// ledger and the caller's pending transaction untouched.
type AccountLedger struct {
	pool        Pool
	callTimeout time.Duration
}

// NewAccountLedger creates a new AccountLedger. callTimeout bounds each call;
// zero disables the bound.
func NewAccountLedger(pool Pool, callTimeout time.Duration) *AccountLedger {
	return &AccountLedger{pool: pool, callTimeout: callTimeout}
}

func (l *AccountLedger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, l.callTimeout)
}

// Mint credits an account, creating it on first use.
func (l *AccountLedger) Mint(ctx context.Context, to string, amount int64) error {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO ledger_accounts (account, balance) VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET balance = ledger_accounts.balance + $2`

	if _, err := l.pool.Exec(ctx, query, to, amount); err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	return nil
}

// Burn debits an account, failing if the balance does not cover the amount.
func (l *AccountLedger) Burn(ctx context.Context, from string, amount int64) error {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin burn: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	balance, err := lockBalance(ctx, tx, from)
	if err != nil {
		return err
	}
	if balance < amount {
		return apperror.ErrInsufficientSourceBalance()
	}

	if _, err := tx.Exec(ctx,
		`UPDATE ledger_accounts SET balance = balance - $1 WHERE account = $2`, amount, from); err != nil {
		return fmt.Errorf("burn: %w", err)
	}
	return tx.Commit(ctx)
}

// Transfer moves amount between two accounts. Rows lock in account order so
// two opposing transfers cannot deadlock.
func (l *AccountLedger) Transfer(ctx context.Context, from, to string, amount int64) error {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	first, second := from, to
	if second < first {
		first, second = second, first
	}
	balances := make(map[string]int64, 2)
	for _, account := range []string{first, second} {
		balance, err := lockBalance(ctx, tx, account)
		if err != nil {
			return err
		}
		balances[account] = balance
	}

	if balances[from] < amount {
		return apperror.ErrInsufficientSourceBalance()
	}

	if _, err := tx.Exec(ctx,
		`UPDATE ledger_accounts SET balance = balance - $1 WHERE account = $2`, amount, from); err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO ledger_accounts (account, balance) VALUES ($1, $2)
			ON CONFLICT (account) DO UPDATE SET balance = ledger_accounts.balance + $2`, to, amount); err != nil {
		return fmt.Errorf("credit: %w", err)
	}
	return tx.Commit(ctx)
}

// BalanceOf returns an account's balance. Unknown accounts hold zero.
func (l *AccountLedger) BalanceOf(ctx context.Context, account string) (int64, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	var balance int64
	err := l.pool.QueryRow(ctx,
		`SELECT balance FROM ledger_accounts WHERE account = $1`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("balance of %s: %w", account, err)
	}
	return balance, nil
}

// lockBalance locks an account row and returns its balance. A missing account
// reads as zero without a lock.
func lockBalance(ctx context.Context, tx pgx.Tx, account string) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx,
		`SELECT balance FROM ledger_accounts WHERE account = $1 FOR UPDATE`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("lock account %s: %w", account, err)
	}
	return balance, nil
}
