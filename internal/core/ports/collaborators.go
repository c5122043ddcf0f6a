package ports

import (
	"context"

	"carbon-offset-registry/internal/core/domain"
)

// ValueLedger is the external fungible-token account ledger. Calls are
// synchronous with bounded timeouts and either complete fully or fail
// cleanly; the core never observes a partially applied ledger operation.
type ValueLedger interface {
	Mint(ctx context.Context, to string, amount int64) error
	Burn(ctx context.Context, from string, amount int64) error
	Transfer(ctx context.Context, from string, to string, amount int64) error
	BalanceOf(ctx context.Context, account string) (int64, error)
}

// AuthorizationGate decides whether a caller may execute an operation.
// The core consults the gate before every gated mutating entry point and
// rejects with Unauthorized when it returns false.
type AuthorizationGate interface {
	IsAuthorized(ctx context.Context, caller string, op domain.Operation) (bool, error)
}
