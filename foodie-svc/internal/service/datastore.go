package service

import (
	"context"
	"errors"
	"fmt"

	"foodie/foodie-svc/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DataStore wraps the repository with the lazy reseed policy: a read that
// finds its collection missing resets the dataset and retries once.
type DataStore struct {
	repo   Repository
	seed   *domain.Seed
	logger zerolog.Logger
}

func NewDataStore(repo Repository, seed *domain.Seed, logger zerolog.Logger) *DataStore {
	return &DataStore{repo: repo, seed: seed, logger: logger}
}

func (d *DataStore) User(ctx context.Context, customerID int) (*domain.User, error) {
	return withReseed(ctx, d, "user", func(ctx context.Context) (*domain.User, error) {
		return d.repo.LoadUser(ctx, customerID)
	})
}

func (d *DataStore) Menu(ctx context.Context) (*domain.Menu, error) {
	return withReseed(ctx, d, "menu", d.repo.LoadMenu)
}

func (d *DataStore) Branches(ctx context.Context) ([]domain.Branch, error) {
	return withReseed(ctx, d, "branches", d.repo.LoadBranches)
}

func (d *DataStore) Order(ctx context.Context, customerID int, orderID string) (*domain.OrderRecord, error) {
	return d.repo.FindOrder(ctx, customerID, orderID)
}

// Reset restores the canonical seed dataset.
func (d *DataStore) Reset(ctx context.Context) error {
	if err := d.repo.ReplaceAll(ctx, d.seed); err != nil {
		return fmt.Errorf("%w: reset failed: %v", domain.ErrStorageUnavailable, err)
	}
	d.logger.Info().
		Int("users", len(d.seed.Users)).
		Int("branches", len(d.seed.Branches)).
		Msg("dataset reset to seed")
	return nil
}

func (d *DataStore) SaveOrder(ctx context.Context, customerID int, order domain.OrderRecord) (decimal.Decimal, error) {
	return d.repo.CommitOrder(ctx, customerID, order)
}

func (d *DataStore) SaveBooking(ctx context.Context, customerID int, location, tableType string, price decimal.Decimal) (int, decimal.Decimal, error) {
	return d.repo.CommitBooking(ctx, customerID, location, tableType, price)
}

func (d *DataStore) SaveDeposit(ctx context.Context, customerID int, amount decimal.Decimal) (decimal.Decimal, error) {
	return d.repo.CreditWallet(ctx, customerID, amount)
}

func withReseed[T any](ctx context.Context, d *DataStore, kind string, load func(context.Context) (T, error)) (T, error) {
	value, err := load(ctx)
	if !errors.Is(err, domain.ErrStorageMissing) {
		return value, err
	}

	d.logger.Warn().Str("kind", kind).Msg("collection missing, reseeding")
	if err := d.Reset(ctx); err != nil {
		var zero T
		return zero, err
	}

	value, err = load(ctx)
	if errors.Is(err, domain.ErrStorageMissing) {
		var zero T
		return zero, fmt.Errorf("%w: %s still missing after reset", domain.ErrStorageUnavailable, kind)
	}
	return value, err
}
