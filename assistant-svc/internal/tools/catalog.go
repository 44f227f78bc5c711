package tools

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

type Kind int

const (
	KindQuery Kind = iota
	KindQuote
	KindCommit
)

func (k Kind) String() string {
	switch k {
	case KindQuote:
		return "quote"
	case KindCommit:
		return "commit"
	default:
		return "query"
	}
}

// Tool is one function the model may call. Quote and commit tools come in
// pairs sharing a fingerprint of what the customer is being charged for.
type Tool struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
	Kind        Kind
	Pair        string

	build func(args json.RawMessage) (Request, string, error)
}

type orderLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

var noParameters = jsonschema.Definition{
	Type:       jsonschema.Object,
	Properties: map[string]jsonschema.Definition{},
}

var itemsParameter = jsonschema.Definition{
	Type:        jsonschema.Array,
	Description: `A list of food items with quantities, e.g., [{"name": "Jollof Rice", "quantity": 2}]. Quantity is at least 1.`,
	Items: &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"name":     {Type: jsonschema.String},
			"quantity": {Type: jsonschema.Integer},
		},
		Required: []string{"name", "quantity"},
	},
}

func tableParameters(locationDesc string) jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"location": {
				Type:        jsonschema.String,
				Description: locationDesc,
			},
			"table_type": {
				Type:        jsonschema.String,
				Description: "The type of table to book, e.g., 'table_for_2', 'table_for_4', 'vip_lounge'.",
			},
		},
		Required: []string{"location", "table_type"},
	}
}

func DefaultTools() []*Tool {
	return []*Tool{
		{
			Name:        "get_current_user_info",
			Description: "Get current user's profile info (ID, wallet balance in naira, last orders).",
			Parameters:  noParameters,
			build:       static(http.MethodGet, "/user"),
		},
		{
			Name:        "get_user_wallet_balance",
			Description: "Get current user's wallet balance in naira.",
			Parameters:  noParameters,
			build:       static(http.MethodGet, "/user/wallet"),
		},
		{
			Name:        "get_user_last_orders",
			Description: "Get last food orders by the user.",
			Parameters:  noParameters,
			build:       static(http.MethodGet, "/user/orders"),
		},
		{
			Name:        "get_full_menu",
			Description: "Get the full categorized menu and prices in naira.",
			Parameters:  noParameters,
			build:       static(http.MethodGet, "/menu"),
		},
		{
			Name:        "get_menu_category",
			Description: "Briefly list with their prices in naira all menu items in the given category (e.g., 'soups', 'sides').",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"category": {
						Type:        jsonschema.String,
						Description: "The category of menu items, e.g., 'soups', 'sides', 'main_courses'.",
					},
				},
				Required: []string{"category"},
			},
			build: buildCategory,
		},
		{
			Name:        "get_popular_dishes",
			Description: "Get the most ordered dishes across all Foodie branches, most popular first.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"limit": {
						Type:        jsonschema.Integer,
						Description: "How many dishes to return, defaults to 5.",
					},
					"period": {
						Type:        jsonschema.String,
						Enum:        []string{"alltime", "daily"},
						Description: "alltime (default) or daily for today's orders only.",
					},
				},
			},
			build: buildPopular,
		},
		{
			Name:        "list_all_branches",
			Description: "List all restaurant branches.",
			Parameters:  noParameters,
			build:       static(http.MethodGet, "/branches"),
		},
		{
			Name:        "get_branch_details",
			Description: "Get details of a branch (available tables, specials, operating hours, manager, contact, delivery availability, tables booked so far).",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"location": {
						Type:        jsonschema.String,
						Description: "The location name of the branch, e.g., 'Victoria Island', 'Ikeja'.",
					},
				},
				Required: []string{"location"},
			},
			build: buildBranch,
		},
		{
			Name: "pre_booking",
			Description: "**BEFORE USER'S CONFIRMATION** Provides a provisional summary or invoice for a requested table booking. " +
				"**It returns a summary for user review and does not process the booking or deduct from the wallet.**",
			Parameters: tableParameters("The location name of the branch for the provisional booking (e.g., 'Ikeja', 'Victoria Island')."),
			Kind:       KindQuote,
			Pair:       "book_table",
			build:      buildPreBooking,
		},
		{
			Name: "book_table",
			Description: "**AFTER USER'S CONFIRMATION** Book a table at a Foodie branch, remove the amount from the wallet and subtract that table from available tables. " +
				"Only call this after pre_booking was shown and the user explicitly agreed.",
			Parameters: tableParameters("The location name of the branch where the table is to be booked."),
			Kind:       KindCommit,
			Pair:       "pre_booking",
			build:      buildBookTable,
		},
		{
			Name:        "pre_order",
			Description: "**BEFORE USER'S CONFIRMATION** Gives a provisional summary or invoice for a requested food order with quantities. **This does NOT place the order or deduct money.**",
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: map[string]jsonschema.Definition{"items": itemsParameter},
				Required:   []string{"items"},
			},
			Kind:  KindQuote,
			Pair:  "place_order",
			build: buildPreOrder,
		},
		{
			Name:        "place_order",
			Description: "**AFTER USER'S CONFIRMATION** Place a food order (deducts total from wallet), adds order to last orders, generates receipt.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"items": itemsParameter,
					"total_cost": {
						Type:        jsonschema.Number,
						Description: "The final total cost of the order to be deducted from the user's wallet. Must match the confirmed pre_order grand total.",
					},
				},
				Required: []string{"items", "total_cost"},
			},
			Kind:  KindCommit,
			Pair:  "pre_order",
			build: buildPlaceOrder,
		},
		{
			Name:        "wallet_deposit",
			Description: "Deposit the given amount in naira into the user's wallet. Only call this when the user explicitly asks to fund their wallet.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"amount": {
						Type:        jsonschema.Number,
						Description: "Amount in naira to deposit, greater than zero.",
					},
				},
				Required: []string{"amount"},
			},
			build: buildDeposit,
		},
	}
}

func static(method, path string) func(json.RawMessage) (Request, string, error) {
	return func(json.RawMessage) (Request, string, error) {
		return Request{Method: method, Path: path}, "", nil
	}
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return invalidArguments("%v", err)
	}
	return nil
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidArguments("%s is required", field)
	}
	return value, nil
}

func buildCategory(args json.RawMessage) (Request, string, error) {
	var in struct {
		Category string `json:"category"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Request{}, "", err
	}
	category, err := required("category", in.Category)
	if err != nil {
		return Request{}, "", err
	}
	return Request{Method: http.MethodGet, Path: "/menu/" + url.PathEscape(category)}, "", nil
}

func buildPopular(args json.RawMessage) (Request, string, error) {
	var in struct {
		Limit  int    `json:"limit"`
		Period string `json:"period"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Request{}, "", err
	}
	query := url.Values{}
	if in.Limit > 0 {
		query.Set("limit", strconv.Itoa(in.Limit))
	}
	switch period := strings.ToLower(strings.TrimSpace(in.Period)); period {
	case "", "alltime":
	case "daily":
		query.Set("period", period)
	default:
		return Request{}, "", invalidArguments("period must be alltime or daily")
	}
	req := Request{Method: http.MethodGet, Path: "/menu/popular"}
	if len(query) > 0 {
		req.Query = query
	}
	return req, "", nil
}

func buildBranch(args json.RawMessage) (Request, string, error) {
	var in struct {
		Location string `json:"location"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Request{}, "", err
	}
	location, err := required("location", in.Location)
	if err != nil {
		return Request{}, "", err
	}
	return Request{Method: http.MethodGet, Path: "/branches/" + url.PathEscape(location)}, "", nil
}

type tableArgs struct {
	Location  string `json:"location"`
	TableType string `json:"table_type"`
}

func decodeTable(args json.RawMessage) (string, string, error) {
	var in tableArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", "", err
	}
	location, err := required("location", in.Location)
	if err != nil {
		return "", "", err
	}
	tableType, err := required("table_type", in.TableType)
	if err != nil {
		return "", "", err
	}
	return location, tableType, nil
}

func buildPreBooking(args json.RawMessage) (Request, string, error) {
	location, tableType, err := decodeTable(args)
	if err != nil {
		return Request{}, "", err
	}
	return Request{
		Method: http.MethodGet,
		Path:   "/pre_book/" + url.PathEscape(location) + "/" + url.PathEscape(tableType),
	}, bookingFingerprint(location, tableType), nil
}

func buildBookTable(args json.RawMessage) (Request, string, error) {
	location, tableType, err := decodeTable(args)
	if err != nil {
		return Request{}, "", err
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/book_table",
		Query:  url.Values{"location": {location}, "table_type": {tableType}},
	}, bookingFingerprint(location, tableType), nil
}

func decodeItems(items []orderLine) ([]orderLine, error) {
	if len(items) == 0 {
		return nil, invalidArguments("items must contain at least one entry")
	}
	out := make([]orderLine, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, invalidArguments("every item needs a name")
		}
		if item.Quantity < 1 {
			return nil, invalidArguments("quantity for %s must be at least 1", name)
		}
		out = append(out, orderLine{Name: name, Quantity: item.Quantity})
	}
	return out, nil
}

func buildPreOrder(args json.RawMessage) (Request, string, error) {
	var in struct {
		Items []orderLine `json:"items"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Request{}, "", err
	}
	items, err := decodeItems(in.Items)
	if err != nil {
		return Request{}, "", err
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/pre_order",
		Body:   map[string]interface{}{"items": items},
	}, orderFingerprint(items), nil
}

func buildPlaceOrder(args json.RawMessage) (Request, string, error) {
	var in struct {
		Items     []orderLine `json:"items"`
		TotalCost json.Number `json:"total_cost"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Request{}, "", err
	}
	items, err := decodeItems(in.Items)
	if err != nil {
		return Request{}, "", err
	}
	if in.TotalCost == "" {
		return Request{}, "", invalidArguments("total_cost is required")
	}
	if _, err := in.TotalCost.Float64(); err != nil {
		return Request{}, "", invalidArguments("total_cost must be a number")
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/place_order",
		Body:   map[string]interface{}{"items": items, "total_cost": in.TotalCost},
	}, orderFingerprint(items), nil
}

func declaredTotal(args json.RawMessage) string {
	var in struct {
		TotalCost json.Number `json:"total_cost"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return ""
	}
	return in.TotalCost.String()
}

func buildDeposit(args json.RawMessage) (Request, string, error) {
	var in struct {
		Amount json.Number `json:"amount"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Request{}, "", err
	}
	if in.Amount == "" {
		return Request{}, "", invalidArguments("amount is required")
	}
	if _, err := in.Amount.Float64(); err != nil {
		return Request{}, "", invalidArguments("amount must be a number")
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/wallet_deposit",
		Body:   map[string]interface{}{"amount": in.Amount},
	}, "", nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// orderFingerprint identifies an item set independent of order, casing and
// how quantities of the same dish were split across lines.
func orderFingerprint(items []orderLine) string {
	totals := make(map[string]int, len(items))
	for _, item := range items {
		totals[normalize(item.Name)] += item.Quantity
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, totals[name])
	}
	return digest("order", strings.Join(parts, ";"))
}

func bookingFingerprint(location, tableType string) string {
	table := strings.ReplaceAll(normalize(tableType), " ", "_")
	return digest("booking", normalize(location)+"|"+table)
}

func digest(kind, canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return kind + ":" + hex.EncodeToString(sum[:8])
}
