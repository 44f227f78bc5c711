package service

import (
	"context"
	"strings"

	"foodie/foodie-svc/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Pricing struct {
	PackagingFee    decimal.Decimal
	DrinkCategories []string
}

// QuoteEngine prices orders and bookings against the current catalog. It
// never mutates state.
type QuoteEngine struct {
	catalog      *CatalogService
	packagingFee decimal.Decimal
	drinks       map[string]bool
}

func NewQuoteEngine(catalog *CatalogService, pricing Pricing) *QuoteEngine {
	drinks := make(map[string]bool, len(pricing.DrinkCategories))
	for _, c := range pricing.DrinkCategories {
		drinks[domain.NormalizeName(c)] = true
	}
	return &QuoteEngine{
		catalog:      catalog,
		packagingFee: pricing.PackagingFee,
		drinks:       drinks,
	}
}

func (e *QuoteEngine) QuoteOrder(ctx context.Context, items []domain.OrderLine) (*domain.Quote, error) {
	if len(items) == 0 {
		return nil, domain.Errorf(domain.ErrEmptyOrder, "Order must contain at least one item.")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domain.Errorf(domain.ErrInvalidQuantity, "Quantity for %s must be at least 1.", strings.TrimSpace(item.Name))
		}
	}

	menu, err := e.catalog.FullMenu(ctx)
	if err != nil {
		return nil, err
	}
	index := menu.Index()

	var (
		lines    = make([]domain.QuoteLine, 0, len(items))
		unknown  []string
		subtotal = decimal.Zero
		packaged bool
	)
	for _, item := range items {
		priced, ok := index[domain.NormalizeName(item.Name)]
		if !ok {
			unknown = append(unknown, strings.TrimSpace(item.Name))
			continue
		}

		lineTotal := priced.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		if !e.drinks[domain.NormalizeName(priced.Category)] {
			packaged = true
		}

		lines = append(lines, domain.QuoteLine{
			Item:      priced.Name,
			Quantity:  item.Quantity,
			UnitPrice: priced.Price,
			Subtotal:  lineTotal.Round(2),
		})
	}
	if len(unknown) > 0 {
		return nil, &domain.UnknownItemsError{Names: unknown}
	}

	packaging := decimal.Zero
	if packaged {
		packaging = e.packagingFee
	}

	taxable := subtotal.Add(packaging)
	vat := taxable.Mul(menu.VATPercentage).Div(hundred)
	grand := taxable.Add(vat)

	return &domain.Quote{
		Items:         lines,
		SubTotal:      subtotal.Round(2),
		PackagingFee:  packaging.Round(2),
		VATPercentage: menu.VATPercentage,
		VATAmount:     vat.Round(2),
		GrandTotal:    grand.Round(2),
	}, nil
}

func (e *QuoteEngine) QuoteBooking(ctx context.Context, location, tableType string) (*domain.BookingQuote, error) {
	branch, err := e.catalog.BranchDetails(ctx, location)
	if err != nil {
		return nil, err
	}

	key := domain.NormalizeTableType(tableType)
	table, ok := branch.AvailableTables[key]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "Table type '%s' not found in %s.", tableType, domain.TitleCase(branch.Location))
	}
	if table.Number <= 0 {
		return nil, domain.Errorf(domain.ErrUnavailable, "No tables available for %s at %s.", key, domain.TitleCase(branch.Location))
	}

	return &domain.BookingQuote{
		TableType:     key,
		Location:      branch.Location,
		EstimatedCost: table.UnitPrice.Round(2),
		Available:     table.Number,
	}, nil
}
