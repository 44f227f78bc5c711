package service

import (
	"context"
	"errors"
	"time"

	"foodie/foodie-svc/internal/domain"
	"foodie/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var totalTolerance = decimal.New(1, -2)

// TransactionService commits money-moving operations. Every commit
// re-derives prices from the catalog and persists through a single
// repository transaction.
type TransactionService struct {
	store     *DataStore
	quotes    *QuoteEngine
	publisher EventPublisher
	qr        QRGenerator
	logger    zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewTransactionService(store *DataStore, quotes *QuoteEngine, publisher EventPublisher, qr QRGenerator, logger zerolog.Logger) *TransactionService {
	return &TransactionService{
		store:     store,
		quotes:    quotes,
		publisher: publisher,
		qr:        qr,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock overrides the time source and id generator.
func (s *TransactionService) WithClock(now func() time.Time, newID func() string) *TransactionService {
	s.now = now
	s.newID = newID
	return s
}

func (s *TransactionService) User(ctx context.Context, customerID int) (*domain.User, error) {
	return s.store.User(ctx, customerID)
}

func (s *TransactionService) PlaceOrder(ctx context.Context, customerID int, items []domain.OrderLine, declaredTotal decimal.Decimal) (*domain.OrderReceipt, error) {
	user, err := s.store.User(ctx, customerID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.QuoteOrder(ctx, items)
	if err != nil {
		return nil, err
	}

	if quote.GrandTotal.Sub(declaredTotal).Abs().GreaterThan(totalTolerance) {
		metrics.IncRejection("total_mismatch")
		return nil, domain.Errorf(domain.ErrTotalMismatch, "Mismatch in total cost submitted.")
	}
	if user.WalletBalance.LessThan(quote.GrandTotal) {
		metrics.IncRejection("insufficient_funds")
		return nil, domain.Errorf(domain.ErrInsufficientFunds, "Insufficient wallet balance.")
	}

	now := s.now()
	record := domain.OrderRecord{
		ID:         s.newID(),
		Food:       quote.Lines(),
		Date:       now.Format("2006-01-02"),
		Time:       now.Format("15:04"),
		GrandTotal: quote.GrandTotal,
	}

	balance, err := s.store.SaveOrder(ctx, customerID, record)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			metrics.IncRejection("insufficient_funds")
		}
		return nil, err
	}

	metrics.IncOrderPlaced(quote.GrandTotal.InexactFloat64())
	s.logger.Info().
		Int("customer_id", customerID).
		Str("order_id", record.ID).
		Str("grand_total", quote.GrandTotal.StringFixed(2)).
		Msg("order placed")

	s.publish(ctx, domain.KafkaMessage{
		Type:       domain.EventOrderPlaced,
		CustomerID: customerID,
		OrderID:    record.ID,
		Items:      record.Food,
		Amount:     quote.GrandTotal,
		Timestamp:  now,
	})

	return &domain.OrderReceipt{
		OrderID:          record.ID,
		OrderedItems:     record.Food,
		SubTotal:         quote.SubTotal,
		PackagingFee:     quote.PackagingFee,
		VAT:              quote.VATAmount,
		GrandTotal:       quote.GrandTotal,
		NewWalletBalance: balance,
		Date:             record.Date,
		Time:             record.Time,
	}, nil
}

func (s *TransactionService) BookTable(ctx context.Context, customerID int, location, tableType string) (*domain.BookingReceipt, error) {
	user, err := s.store.User(ctx, customerID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.QuoteBooking(ctx, location, tableType)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			metrics.IncRejection("unavailable")
		}
		return nil, err
	}
	if user.WalletBalance.LessThan(quote.EstimatedCost) {
		metrics.IncRejection("insufficient_funds")
		return nil, domain.Errorf(domain.ErrInsufficientFunds, "Insufficient wallet balance.")
	}

	remaining, balance, err := s.store.SaveBooking(ctx, customerID, quote.Location, quote.TableType, quote.EstimatedCost)
	if err != nil {
		return nil, err
	}

	metrics.IncTableBooked(quote.Location, quote.EstimatedCost.InexactFloat64())
	s.logger.Info().
		Int("customer_id", customerID).
		Str("location", quote.Location).
		Str("table_type", quote.TableType).
		Int("remaining", remaining).
		Msg("table booked")

	s.publish(ctx, domain.KafkaMessage{
		Type:       domain.EventTableBooked,
		CustomerID: customerID,
		Amount:     quote.EstimatedCost,
		Location:   quote.Location,
		TableType:  quote.TableType,
		Timestamp:  s.now(),
	})

	return &domain.BookingReceipt{
		TableType:        quote.TableType,
		Location:         quote.Location,
		Paid:             quote.EstimatedCost,
		RemainingTables:  remaining,
		NewWalletBalance: balance,
	}, nil
}

func (s *TransactionService) DepositWallet(ctx context.Context, customerID int, amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, domain.Errorf(domain.ErrInvalidAmount, "Deposit amount must be positive.")
	}
	if _, err := s.store.User(ctx, customerID); err != nil {
		return decimal.Zero, err
	}

	balance, err := s.store.SaveDeposit(ctx, customerID, amount)
	if err != nil {
		return decimal.Zero, err
	}

	metrics.IncWalletDeposit()
	s.publish(ctx, domain.KafkaMessage{
		Type:       domain.EventWalletDeposited,
		CustomerID: customerID,
		Amount:     amount,
		Timestamp:  s.now(),
	})
	return balance, nil
}

func (s *TransactionService) Receipt(ctx context.Context, customerID int, orderID string) (*domain.OrderRecord, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.Errorf(domain.ErrNotFound, "Order not found")
	}
	return s.store.Order(ctx, customerID, orderID)
}

func (s *TransactionService) ReceiptQRCode(ctx context.Context, customerID int, orderID string) ([]byte, error) {
	if _, err := s.Receipt(ctx, customerID, orderID); err != nil {
		return nil, err
	}
	if s.qr == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "QR code not available")
	}
	return s.qr.Generate(orderID)
}

func (s *TransactionService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func (s *TransactionService) publish(ctx context.Context, msg domain.KafkaMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Str("type", msg.Type).Msg("failed to publish event")
	}
}
