package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced     = "order_placed"
	EventTableBooked     = "table_booked"
	EventWalletDeposited = "wallet_deposited"
)

type OrderLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// KafkaMessage is the event envelope foodie-svc publishes after a commit.
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
