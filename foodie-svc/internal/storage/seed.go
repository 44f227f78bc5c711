package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"foodie/foodie-svc/internal/domain"

	"github.com/shopspring/decimal"
)

//go:embed seed.json
var seedJSON []byte

type seedFile struct {
	Users []domain.User `json:"users"`
	Menu  struct {
		VATPercentage decimal.Decimal   `json:"vat_percentage"`
		Categories    []domain.Category `json:"categories"`
	} `json:"menu"`
	Branches []domain.Branch `json:"branches"`
}

// LoadSeed parses the embedded canonical dataset.
func LoadSeed() (*domain.Seed, error) {
	return ParseSeed(seedJSON)
}

func ParseSeed(data []byte) (*domain.Seed, error) {
	var file seedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if len(file.Users) == 0 || len(file.Menu.Categories) == 0 || len(file.Branches) == 0 {
		return nil, fmt.Errorf("seed must contain users, menu categories and branches")
	}
	return &domain.Seed{
		Users: file.Users,
		Menu: domain.Menu{
			Categories:    file.Menu.Categories,
			VATPercentage: file.Menu.VATPercentage,
		},
		Branches: file.Branches,
	}, nil
}
