package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"foodie/foodie-svc/internal/domain"
	"foodie/foodie-svc/internal/service"
	"foodie/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CustomerHeader carries the caller's customer id on user scoped routes.
const CustomerHeader = "X-Customer-ID"

type Handler struct {
	Catalog      service.CatalogServiceInterface
	Quotes       service.QuoteEngineInterface
	Transactions service.TransactionServiceInterface
	logger       zerolog.Logger
}

func NewHandler(catalog service.CatalogServiceInterface, quotes service.QuoteEngineInterface, transactions service.TransactionServiceInterface, logger zerolog.Logger) *Handler {
	return &Handler{
		Catalog:      catalog,
		Quotes:       quotes,
		Transactions: transactions,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.welcome).Methods("GET")
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/user", h.withCustomer(h.getUser)).Methods("GET")
	r.HandleFunc("/user/wallet", h.withCustomer(h.getWallet)).Methods("GET")
	r.HandleFunc("/user/orders", h.withCustomer(h.getOrders)).Methods("GET")
	r.HandleFunc("/user/orders/{id}", h.withCustomer(h.getOrder)).Methods("GET")
	r.HandleFunc("/user/orders/{id}/qrcode", h.withCustomer(h.getOrderQRCode)).Methods("GET")

	r.HandleFunc("/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/menu/popular", h.getPopular).Methods("GET")
	r.HandleFunc("/menu/{category}", h.getCategory).Methods("GET")

	r.HandleFunc("/branches", h.getBranches).Methods("GET")
	r.HandleFunc("/branches/{location}", h.getBranch).Methods("GET")

	r.HandleFunc("/pre_book/{location}/{table_type}", h.preBook).Methods("GET")
	r.HandleFunc("/book_table", h.withCustomer(h.bookTable)).Methods("POST")
	r.HandleFunc("/pre_order", h.preOrder).Methods("POST")
	r.HandleFunc("/place_order", h.withCustomer(h.placeOrder)).Methods("POST")
	r.HandleFunc("/wallet_deposit", h.withCustomer(h.walletDeposit)).Methods("POST")

	r.HandleFunc("/admin/reset", h.reset).Methods("POST")
}

type customerHandler func(w http.ResponseWriter, r *http.Request, customerID int)

func (h *Handler) withCustomer(next customerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimSpace(r.Header.Get(CustomerHeader)))
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{
				Error: "Missing or invalid " + CustomerHeader + " header",
				Code:  "unauthorized",
			})
			return
		}
		next(w, r, id)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "Internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnknownItem):
		return http.StatusBadRequest, "unknown_item"
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadRequest, "unavailable"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, "insufficient_funds"
	case errors.Is(err, domain.ErrTotalMismatch):
		return http.StatusBadRequest, "total_mismatch"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusBadRequest, "empty_order"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Code: "invalid_request"})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "foodie-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.Header.Get(CustomerHeader))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Foodie"})
		return
	}
	user, err := h.Transactions.User(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Welcome Foodie_0%d, your wallet balance is ₦%s", user.CustomerID, user.WalletBalance.StringFixed(2)),
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, customerID int) {
	user, err := h.Transactions.User(r.Context(), customerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getWallet(w http.ResponseWriter, r *http.Request, customerID int) {
	user, err := h.Transactions.User(r.Context(), customerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"wallet_balance": user.WalletBalance.Round(2),
		"currency":       domain.Currency,
	})
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request, customerID int) {
	user, err := h.Transactions.User(r.Context(), customerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.LastOrders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request, customerID int) {
	order, err := h.Transactions.Receipt(r.Context(), customerID, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request, customerID int) {
	qrCode, err := h.Transactions.ReceiptQRCode(r.Context(), customerID, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Catalog.FullMenu(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Category(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getPopular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}
	period := r.URL.Query().Get("period")
	switch period {
	case "":
		period = domain.PeriodAllTime
	case domain.PeriodAllTime, domain.PeriodDaily:
	default:
		h.badRequest(w, "period must be alltime or daily")
		return
	}
	dishes, err := h.Catalog.PopularDishes(r.Context(), period, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (h *Handler) getBranches(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Catalog.Branches(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

type branchResponse struct {
	*domain.Branch
	Bookings map[string]int64 `json:"bookings,omitempty"`
}

func (h *Handler) getBranch(w http.ResponseWriter, r *http.Request) {
	branch, err := h.Catalog.BranchDetails(r.Context(), mux.Vars(r)["location"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := branchResponse{Branch: branch}
	bookings, err := h.Catalog.BookingCounts(r.Context(), branch.Location)
	if err != nil {
		h.logger.Warn().Err(err).Str("location", branch.Location).Msg("booking counts unavailable")
	} else if len(bookings) > 0 {
		resp.Bookings = bookings
	}
	writeJSON(w, http.StatusOK, resp)
}

type bookingQuoteResponse struct {
	Message string `json:"message"`
	*domain.BookingQuote
	Currency string `json:"currency"`
}

func (h *Handler) preBook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quote, err := h.Quotes.QuoteBooking(r.Context(), vars["location"], vars["table_type"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingQuoteResponse{
		Message:      fmt.Sprintf("Provisional summary for booking a '%s' at %s branch:", quote.TableType, domain.TitleCase(quote.Location)),
		BookingQuote: quote,
		Currency:     domain.Currency,
	})
}

type bookingResponse struct {
	Message string `json:"message"`
	*domain.BookingReceipt
	Currency string `json:"currency"`
}

func (h *Handler) bookTable(w http.ResponseWriter, r *http.Request, customerID int) {
	location := r.URL.Query().Get("location")
	tableType := r.URL.Query().Get("table_type")
	if strings.TrimSpace(location) == "" || strings.TrimSpace(tableType) == "" {
		h.badRequest(w, "location and table_type are required")
		return
	}

	receipt, err := h.Transactions.BookTable(r.Context(), customerID, location, tableType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingResponse{
		Message:        fmt.Sprintf("Table '%s' booked at %s branch.", receipt.TableType, domain.TitleCase(receipt.Location)),
		BookingReceipt: receipt,
		Currency:       domain.Currency,
	})
}

type orderItemsRequest struct {
	Items []domain.OrderLine `json:"items"`
}

type quoteResponse struct {
	Message string `json:"message"`
	*domain.Quote
	Currency string `json:"currency"`
}

func (h *Handler) preOrder(w http.ResponseWriter, r *http.Request) {
	var req orderItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid JSON format: "+err.Error())
		return
	}

	quote, err := h.Quotes.QuoteOrder(r.Context(), req.Items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		Message:  "Provisional order summary:",
		Quote:    quote,
		Currency: domain.Currency,
	})
}

type placeOrderRequest struct {
	Items     []domain.OrderLine `json:"items"`
	TotalCost *decimal.Decimal   `json:"total_cost"`
}

type orderResponse struct {
	Message string `json:"message"`
	*domain.OrderReceipt
	Currency string `json:"currency"`
	QRCode   string `json:"qr_code"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request, customerID int) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid JSON format: "+err.Error())
		return
	}
	if req.TotalCost == nil {
		h.badRequest(w, "total_cost is required")
		return
	}

	receipt, err := h.Transactions.PlaceOrder(r.Context(), customerID, req.Items, *req.TotalCost)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{
		Message:      "Order placed successfully",
		OrderReceipt: receipt,
		Currency:     domain.Currency,
		QRCode:       "/user/orders/" + receipt.OrderID + "/qrcode",
	})
}

type walletDepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) walletDeposit(w http.ResponseWriter, r *http.Request, customerID int) {
	var req walletDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid JSON format: "+err.Error())
		return
	}

	balance, err := h.Transactions.DepositWallet(r.Context(), customerID, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":            fmt.Sprintf("Successfully deposited ₦%s to your wallet.", req.Amount.StringFixed(2)),
		"new_wallet_balance": balance.Round(2),
		"currency":           domain.Currency,
	})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Transactions.Reset(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Data has been reset"})
}
