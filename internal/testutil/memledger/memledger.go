// Package memledger is an in-memory unit of work for usecase tests: real
// storage semantics (monotonic ids, balance checks, rollback on error)
// without a database.
package memledger

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/custody"
	"annuity-exchange/internal/domain/uow"

	"gorm.io/gorm"
)

type balanceKey struct {
	account string
	token   custody.Token
}

type Store struct {
	mu         sync.Mutex
	nextID     uint64
	agreements map[uint64]agreement.Agreement
	balances   map[balanceKey]*big.Int
}

var _ uow.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{
		agreements: make(map[uint64]agreement.Agreement),
		balances:   make(map[balanceKey]*big.Int),
	}
}

// Seed credits an account outside any transaction.
func (s *Store) Seed(account string, token custody.Token, amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addBalance(account, token, amount)
}

// Put inserts or replaces an agreement, assigning an id when absent.
func (s *Store) Put(a agreement.Agreement) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		s.nextID++
		a.ID = s.nextID
	} else if a.ID > s.nextID {
		s.nextID = a.ID
	}
	s.agreements[a.ID] = a
	return a.ID
}

// BalanceOf is a read helper for assertions.
func (s *Store) BalanceOf(account string, token custody.Token) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.balances[balanceKey{account, token}]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

// Agreement returns a copy of the stored agreement for assertions.
func (s *Store) Agreement(id uint64) (agreement.Agreement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agreements[id]
	return a, ok
}

func (s *Store) addBalance(account string, token custody.Token, delta *big.Int) {
	k := balanceKey{account, token}
	cur, ok := s.balances[k]
	if !ok {
		cur = big.NewInt(0)
		s.balances[k] = cur
	}
	cur.Add(cur, delta)
}

type snapshot struct {
	nextID     uint64
	agreements map[uint64]agreement.Agreement
	balances   map[balanceKey]*big.Int
}

func (s *Store) snapshot() snapshot {
	agr := make(map[uint64]agreement.Agreement, len(s.agreements))
	for k, v := range s.agreements {
		agr[k] = v
	}
	bal := make(map[balanceKey]*big.Int, len(s.balances))
	for k, v := range s.balances {
		bal[k] = new(big.Int).Set(v)
	}
	return snapshot{nextID: s.nextID, agreements: agr, balances: bal}
}

func (s *Store) restore(sn snapshot) {
	s.nextID = sn.nextID
	s.agreements = sn.agreements
	s.balances = sn.balances
}

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snapshot()
	err := fn(uow.Repos{
		Agreements: &agreementRepo{s: s},
		Custody:    &custodyRepo{s: s},
	})
	if err != nil {
		s.restore(sn)
	}
	return err
}

func (s *Store) WithinAgreementTx(ctx context.Context, id uint64, fn func(r uow.Repos, a *agreement.Agreement) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.agreements[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sn := s.snapshot()
	a := stored // copy; Save writes it back
	err := fn(uow.Repos{
		Agreements: &agreementRepo{s: s},
		Custody:    &custodyRepo{s: s},
	}, &a)
	if err != nil {
		s.restore(sn)
	}
	return err
}

// ---- repositories bound to the locked store ----

type agreementRepo struct{ s *Store }

func (r *agreementRepo) Create(_ context.Context, a *agreement.Agreement) error {
	r.s.nextID++
	a.ID = r.s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.s.agreements[a.ID] = *a
	return nil
}

func (r *agreementRepo) GetByID(_ context.Context, id uint64) (*agreement.Agreement, error) {
	a, ok := r.s.agreements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *agreementRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*agreement.Agreement, error) {
	return r.GetByID(ctx, id)
}

func (r *agreementRepo) Save(_ context.Context, a *agreement.Agreement) error {
	if _, ok := r.s.agreements[a.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.agreements[a.ID] = *a
	return nil
}

func (r *agreementRepo) ListActive(_ context.Context) ([]*agreement.Agreement, error) {
	ids := make([]uint64, 0, len(r.s.agreements))
	for id, a := range r.s.agreements {
		if a.Status == agreement.StatusActive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*agreement.Agreement, 0, len(ids))
	for _, id := range ids {
		a := r.s.agreements[id]
		out = append(out, &a)
	}
	return out, nil
}

type custodyRepo struct{ s *Store }

func (r *custodyRepo) move(from, to string, token custody.Token, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return custody.ErrInsufficientFunds
	}
	if amount.Sign() == 0 {
		return nil
	}
	k := balanceKey{from, token}
	cur, ok := r.s.balances[k]
	if !ok || cur.Cmp(amount) < 0 {
		return custody.ErrInsufficientFunds
	}
	cur.Sub(cur, amount)
	r.s.addBalance(to, token, amount)
	return nil
}

func (r *custodyRepo) TransferIn(_ context.Context, account string, token custody.Token, amount *big.Int) error {
	return r.move(account, custody.EscrowAccount, token, amount)
}

func (r *custodyRepo) TransferOut(_ context.Context, account string, token custody.Token, amount *big.Int) error {
	return r.move(custody.EscrowAccount, account, token, amount)
}

func (r *custodyRepo) Credit(_ context.Context, account string, token custody.Token, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return custody.ErrInsufficientFunds
	}
	r.s.addBalance(account, token, amount)
	return nil
}

func (r *custodyRepo) BalanceOf(_ context.Context, account string, token custody.Token) (*big.Int, error) {
	if b, ok := r.s.balances[balanceKey{account, token}]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}
