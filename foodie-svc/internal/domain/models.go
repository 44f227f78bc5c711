package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const Currency = "Naira"

type User struct {
	CustomerID    int             `json:"customer_id"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	LastOrders    []OrderRecord   `json:"last_orders"`
}

type OrderLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type OrderRecord struct {
	ID         string          `json:"id"`
	Food       []OrderLine     `json:"food"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type MenuItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Category struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type Menu struct {
	Categories    []Category
	VATPercentage decimal.Decimal
}

// PricedItem is a menu item resolved together with the category it came from.
type PricedItem struct {
	MenuItem
	Category string
}

// Index maps lower-cased item names to the first matching item in category
// order.
func (m *Menu) Index() map[string]PricedItem {
	index := make(map[string]PricedItem)
	for _, category := range m.Categories {
		for _, item := range category.Items {
			key := NormalizeName(item.Name)
			if _, seen := index[key]; seen {
				continue
			}
			index[key] = PricedItem{MenuItem: item, Category: category.Name}
		}
	}
	return index
}

func (m *Menu) Category(name string) (*Category, bool) {
	key := NormalizeName(name)
	for i := range m.Categories {
		if NormalizeName(m.Categories[i].Name) == key {
			return &m.Categories[i], true
		}
	}
	return nil, false
}

// MarshalJSON renders categories as an object in stored order, followed by
// the settings block.
func (m Menu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, category := range m.Categories {
		key, err := json.Marshal(category.Name)
		if err != nil {
			return nil, err
		}
		items := category.Items
		if items == nil {
			items = []MenuItem{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
		buf.WriteByte(',')
	}
	settings, err := json.Marshal(map[string]decimal.Decimal{"vat_percentage": m.VATPercentage})
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"settings":`)
	buf.Write(settings)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type TableInfo struct {
	Number    int             `json:"number"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Special struct {
	Day      string   `json:"day"`
	Food     []string `json:"food"`
	Discount float64  `json:"discount"`
}

type Branch struct {
	Location          string               `json:"location"`
	AvailableTables   map[string]TableInfo `json:"available_tables"`
	Specials          []Special            `json:"specials"`
	OpeningHours      map[string]string    `json:"opening_hours"`
	ContactNumber     string               `json:"contact_number"`
	DeliveryAvailable bool                 `json:"delivery_available"`
	Rating            float64              `json:"rating"`
	Manager           string               `json:"manager"`
}

type QuoteLine struct {
	Item      string          `json:"item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Quote struct {
	Items         []QuoteLine     `json:"ordered_items"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	PackagingFee  decimal.Decimal `json:"packaging_fee"`
	VATPercentage decimal.Decimal `json:"vat_percentage"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// Lines returns the quote as canonical order lines.
func (q *Quote) Lines() []OrderLine {
	lines := make([]OrderLine, 0, len(q.Items))
	for _, item := range q.Items {
		lines = append(lines, OrderLine{Name: item.Item, Quantity: item.Quantity})
	}
	return lines
}

type BookingQuote struct {
	TableType     string          `json:"table_type"`
	Location      string          `json:"location"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Available     int             `json:"availability"`
}

type OrderReceipt struct {
	OrderID          string          `json:"order_id"`
	OrderedItems     []OrderLine     `json:"ordered_items"`
	SubTotal         decimal.Decimal `json:"sub_total"`
	PackagingFee     decimal.Decimal `json:"packaging_fee"`
	VAT              decimal.Decimal `json:"vat"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	NewWalletBalance decimal.Decimal `json:"new_wallet_balance"`
	Date             string          `json:"date"`
	Time             string          `json:"time"`
}

type BookingReceipt struct {
	TableType        string          `json:"table_type"`
	Location         string          `json:"location"`
	Paid             decimal.Decimal `json:"paid"`
	RemainingTables  int             `json:"remaining_tables"`
	NewWalletBalance decimal.Decimal `json:"new_wallet_balance"`
}

// Popularity periods maintained by agg-svc.
const (
	PeriodAllTime = "alltime"
	PeriodDaily   = "daily"
)

type PopularDish struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// Seed is the canonical dataset restored by a reset.
type Seed struct {
	Users    []User
	Menu     Menu
	Branches []Branch
}

const (
	EventOrderPlaced     = "order_placed"
	EventTableBooked     = "table_booked"
	EventWalletDeposited = "wallet_deposited"
)

type KafkaMessage struct {
	Type       string          `json:"type"`
	CustomerID int             `json:"customer_id"`
	OrderID    string          `json:"order_id,omitempty"`
	Items      []OrderLine     `json:"items,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Location   string          `json:"location,omitempty"`
	TableType  string          `json:"table_type,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeTableType maps "Table for 2" and "table_for_2" to the same key.
func NormalizeTableType(tableType string) string {
	return strings.Join(strings.Fields(NormalizeName(tableType)), "_")
}

// TitleCase upper-cases the first letter of each word, as used for
// branch names in customer facing messages.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
