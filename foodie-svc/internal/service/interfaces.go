package service

import (
	"context"

	"foodie/foodie-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type Repository interface {
	LoadUser(ctx context.Context, customerID int) (*domain.User, error)
	LoadMenu(ctx context.Context) (*domain.Menu, error)
	LoadBranches(ctx context.Context) ([]domain.Branch, error)
	FindOrder(ctx context.Context, customerID int, orderID string) (*domain.OrderRecord, error)
	ReplaceAll(ctx context.Context, seed *domain.Seed) error
	CommitOrder(ctx context.Context, customerID int, order domain.OrderRecord) (decimal.Decimal, error)
	CommitBooking(ctx context.Context, customerID int, location, tableType string, price decimal.Decimal) (int, decimal.Decimal, error)
	CreditWallet(ctx context.Context, customerID int, amount decimal.Decimal) (decimal.Decimal, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, msg domain.KafkaMessage) error
}

type PopularitySource interface {
	TopDishes(ctx context.Context, period string, limit int) ([]domain.PopularDish, error)
	BookingCounts(ctx context.Context, location string) (map[string]int64, error)
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

type CatalogServiceInterface interface {
	FullMenu(ctx context.Context) (*domain.Menu, error)
	Category(ctx context.Context, name string) ([]domain.MenuItem, error)
	PriceOf(ctx context.Context, name string) (decimal.Decimal, error)
	Branches(ctx context.Context) ([]string, error)
	BranchDetails(ctx context.Context, location string) (*domain.Branch, error)
	PopularDishes(ctx context.Context, period string, limit int) ([]domain.PopularDish, error)
	BookingCounts(ctx context.Context, location string) (map[string]int64, error)
}

type QuoteEngineInterface interface {
	QuoteOrder(ctx context.Context, items []domain.OrderLine) (*domain.Quote, error)
	QuoteBooking(ctx context.Context, location, tableType string) (*domain.BookingQuote, error)
}

type TransactionServiceInterface interface {
	User(ctx context.Context, customerID int) (*domain.User, error)
	PlaceOrder(ctx context.Context, customerID int, items []domain.OrderLine, declaredTotal decimal.Decimal) (*domain.OrderReceipt, error)
	BookTable(ctx context.Context, customerID int, location, tableType string) (*domain.BookingReceipt, error)
	DepositWallet(ctx context.Context, customerID int, amount decimal.Decimal) (decimal.Decimal, error)
	Receipt(ctx context.Context, customerID int, orderID string) (*domain.OrderRecord, error)
	ReceiptQRCode(ctx context.Context, customerID int, orderID string) ([]byte, error)
	Reset(ctx context.Context) error
}

var (
	_ CatalogServiceInterface     = (*CatalogService)(nil)
	_ QuoteEngineInterface        = (*QuoteEngine)(nil)
	_ TransactionServiceInterface = (*TransactionService)(nil)
)
