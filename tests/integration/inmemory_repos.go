package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Round Repo ---

type inMemoryRoundRepo struct {
	mu     sync.RWMutex
	rounds map[int64]*domain.InvestmentRound
	nextID int64
}

func newInMemoryRoundRepo() *inMemoryRoundRepo {
	return &inMemoryRoundRepo{rounds: make(map[int64]*domain.InvestmentRound), nextID: 1}
}

func copyRound(r *domain.InvestmentRound) *domain.InvestmentRound {
	cp := *r
	cp.Participants = append([]domain.Party(nil), r.Participants...)
	cp.Pledges = append([]domain.Pledge(nil), r.Pledges...)
	return &cp
}

func (r *inMemoryRoundRepo) Create(ctx context.Context, tx pgx.Tx, round *domain.InvestmentRound) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := copyRound(round)
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.rounds[id] = stored
	return id, nil
}

func (r *inMemoryRoundRepo) GetByID(ctx context.Context, id int64) (*domain.InvestmentRound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	round, ok := r.rounds[id]
	if !ok {
		return nil, nil
	}
	return copyRound(round), nil
}

func (r *inMemoryRoundRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.InvestmentRound, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryRoundRepo) AddParticipant(ctx context.Context, tx pgx.Tx, roundID int64, party domain.Party) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return fmt.Errorf("round not found")
	}
	round.Participants = append(round.Participants, party)
	round.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryRoundRepo) AddPledge(ctx context.Context, tx pgx.Tx, roundID int64, pledge domain.Pledge, newRaised int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return fmt.Errorf("round not found")
	}
	round.Pledges = append(round.Pledges, pledge)
	round.RaisedAmount = newRaised
	round.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryRoundRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, roundID int64, status domain.RoundStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return fmt.Errorf("round not found")
	}
	round.Status = status
	round.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryRoundRepo) SetCreditAmount(ctx context.Context, tx pgx.Tx, roundID int64, creditAmount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return fmt.Errorf("round not found")
	}
	round.CreditAmount = creditAmount
	round.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Certificate Repo ---

type inMemoryCertificateRepo struct {
	mu     sync.RWMutex
	certs  map[int64]*domain.Certificate
	nextID int64
}

func newInMemoryCertificateRepo() *inMemoryCertificateRepo {
	return &inMemoryCertificateRepo{certs: make(map[int64]*domain.Certificate), nextID: 1}
}

func (r *inMemoryCertificateRepo) Create(ctx context.Context, tx pgx.Tx, cert *domain.Certificate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := *cert
	stored.ID = id
	r.certs[id] = &stored
	return id, nil
}

func (r *inMemoryCertificateRepo) GetByID(ctx context.Context, id int64) (*domain.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.certs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryCertificateRepo) List(ctx context.Context, limit int) ([]domain.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.certs))
	for id := range r.certs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	var result []domain.Certificate
	for _, id := range ids {
		if len(result) >= limit {
			break
		}
		result = append(result, *r.certs[id])
	}
	return result, nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.Event
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Create(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *inMemoryEventRepo) ListByRound(ctx context.Context, roundID int64) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Event
	for _, e := range r.events {
		if e.RoundID != nil && *e.RoundID == roundID {
			result = append(result, e)
		}
	}
	return result, nil
}

// all returns every recorded event in append order.
func (r *inMemoryEventRepo) all() []domain.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Event(nil), r.events...)
}

// --- In-Memory Party Repo ---

type inMemoryPartyRepo struct {
	mu      sync.RWMutex
	parties map[uuid.UUID]*domain.PartyAccount
}

func newInMemoryPartyRepo() *inMemoryPartyRepo {
	return &inMemoryPartyRepo{parties: make(map[uuid.UUID]*domain.PartyAccount)}
}

func (r *inMemoryPartyRepo) Create(ctx context.Context, party *domain.PartyAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.parties {
		if existing.Username == party.Username {
			return fmt.Errorf("username already exists")
		}
	}
	r.parties[party.ID] = party
	return nil
}

func (r *inMemoryPartyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PartyAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parties[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *inMemoryPartyRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.PartyAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.parties {
		if p.AccessKey == accessKey {
			return p, nil
		}
	}
	return nil, nil
}

func (r *inMemoryPartyRepo) GetByUsername(ctx context.Context, username string) (*domain.PartyAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.parties {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, nil
}

func (r *inMemoryPartyRepo) GetByAddress(ctx context.Context, address string) (*domain.PartyAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.parties {
		if p.Address == address {
			return p, nil
		}
	}
	return nil, nil
}

// --- In-Memory Capability Repo ---

type inMemoryCapabilityRepo struct {
	mu     sync.RWMutex
	grants map[string]map[domain.Operation]bool
}

func newInMemoryCapabilityRepo() *inMemoryCapabilityRepo {
	return &inMemoryCapabilityRepo{grants: make(map[string]map[domain.Operation]bool)}
}

func (r *inMemoryCapabilityRepo) Grant(ctx context.Context, address string, op domain.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.grants[address] == nil {
		r.grants[address] = make(map[domain.Operation]bool)
	}
	r.grants[address][op] = true
	return nil
}

func (r *inMemoryCapabilityRepo) Revoke(ctx context.Context, address string, op domain.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants[address], op)
	return nil
}

func (r *inMemoryCapabilityRepo) Has(ctx context.Context, address string, op domain.Operation) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grants[address][op], nil
}

// --- In-Memory Value Ledger ---

type inMemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

func newInMemoryLedger() *inMemoryLedger {
	return &inMemoryLedger{balances: make(map[string]int64)}
}

func (l *inMemoryLedger) Mint(ctx context.Context, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] += amount
	return nil
}

func (l *inMemoryLedger) Burn(ctx context.Context, from string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return apperror.ErrInsufficientSourceBalance()
	}
	l.balances[from] -= amount
	return nil
}

func (l *inMemoryLedger) Transfer(ctx context.Context, from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return apperror.ErrInsufficientSourceBalance()
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *inMemoryLedger) BalanceOf(ctx context.Context, account string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
