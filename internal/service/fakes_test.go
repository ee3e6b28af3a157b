package service_test

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/repository"
	"github.com/openinventory/inventory-admin/internal/storage/db"
)

// fakeDB satisfies db.DB for services that only need WithTx. The in-memory
// stores below ignore the db handle entirely, so WithTx just invokes the
// function against itself.
type fakeDB struct {
	txErr error
}

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (f *fakeDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeDB) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return nil
}

func (f *fakeDB) WithTx(ctx context.Context, txFunc func(db.DB) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return txFunc(f)
}

type fakeProductStore struct {
	products map[uuid.UUID]model.Product
}

var _ repository.ProductRepository = (*fakeProductStore)(nil)

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[uuid.UUID]model.Product)}
}

func (s *fakeProductStore) WithDB(db.DB) repository.ProductRepository { return s }

func (s *fakeProductStore) Insert(_ context.Context, product model.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *fakeProductStore) FindByID(_ context.Context, id uuid.UUID) (model.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *fakeProductStore) ListAll(context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *fakeProductStore) Update(_ context.Context, product model.Product) error {
	if _, ok := s.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	s.products[product.ID] = product
	return nil
}

func (s *fakeProductStore) DeleteByID(_ context.Context, id uuid.UUID) (model.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	delete(s.products, id)
	return product, nil
}

func (s *fakeProductStore) SellProduct(_ context.Context, id uuid.UUID, quantity int) (model.Product, error) {
	product, ok := s.products[id]
	if !ok || product.Stock < quantity {
		return model.Product{}, repository.ErrInsufficientStock
	}
	product.Stock -= quantity
	product.Sold += quantity
	s.products[id] = product
	return product, nil
}

type fakeActivityStore struct {
	activities []model.Activity
	appendErr  error
}

var _ repository.ActivityRepository = (*fakeActivityStore)(nil)

func (s *fakeActivityStore) WithDB(db.DB) repository.ActivityRepository { return s }

func (s *fakeActivityStore) Append(_ context.Context, activity model.Activity) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	if err := activity.Action.Validate(); err != nil {
		return err
	}
	s.activities = append(s.activities, activity)
	return nil
}

func (s *fakeActivityStore) ListRecent(_ context.Context, limit int32) ([]model.Activity, error) {
	recent := make([]model.Activity, 0, len(s.activities))
	for i := len(s.activities) - 1; i >= 0 && len(recent) < int(limit); i-- {
		recent = append(recent, s.activities[i])
	}
	return recent, nil
}

type fakeOutboxStore struct {
	msgs      []repository.CreateOutboxMsgParams
	createErr error
}

var _ repository.OutboxMsgRepository = (*fakeOutboxStore)(nil)

func (s *fakeOutboxStore) WithDB(db.DB) repository.OutboxMsgRepository { return s }

func (s *fakeOutboxStore) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.msgs = append(s.msgs, params)
	return nil
}

func (s *fakeOutboxStore) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (s *fakeOutboxStore) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

type fakeUserStore struct {
	users map[string]model.User
}

var _ repository.UserRepository = (*fakeUserStore)(nil)

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]model.User)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) WithDB(db.DB) repository.UserRepository { return s }

func (s *fakeUserStore) Insert(_ context.Context, user model.User) error {
	s.users[user.Email] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	user, ok := s.users[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) UpdateSettings(_ context.Context, email, username, currency string) error {
	user, ok := s.users[email]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Username = username
	user.Currency = currency
	s.users[email] = user
	return nil
}
