package orders

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var defaultPrices = map[string]int{
	"tow_flat_bed":                  100,
	"tow_wheel_lift":                500,
	"jump_start":                    1000,
	"jump_start_msj":                1000,
	"flat_tire_with_spare_tire":     2000,
	"flat_tire_with_spare_tire_msj": 2000,
	"lock_out_key":                  3000,
	"lock_out_key_msj":              3000,
	"delivery_gasoline":             4000,
	"delivery_gasoline_msj":         4000,
	"winch_out":                     5000,
	"winch_out_msj":                 5000,
}

// PriceTable maps an order type to its suggested price. Unknown types cost 0.
// Order types are matched exactly.
type PriceTable struct {
	prices map[string]int
}

type priceFile struct {
	Prices map[string]int `yaml:"prices"`
}

func DefaultPriceTable() *PriceTable {
	prices := make(map[string]int, len(defaultPrices))
	for k, v := range defaultPrices {
		prices[k] = v
	}
	return &PriceTable{prices: prices}
}

// LoadPriceTable reads a YAML file of the form
//
//	prices:
//	  tow_flat_bed: 150
//
// and applies it on top of the defaults. An empty path returns the defaults.
func LoadPriceTable(path string) (*PriceTable, error) {
	table := DefaultPriceTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price table: %w", err)
	}

	var f priceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse price table %s: %w", path, err)
	}
	for orderType, price := range f.Prices {
		if price < 0 {
			return nil, fmt.Errorf("price for %q must not be negative", orderType)
		}
		table.prices[orderType] = price
	}
	return table, nil
}

func (p *PriceTable) Price(orderType string) int {
	return p.prices[orderType]
}

// Types lists the priced order types in sorted order.
func (p *PriceTable) Types() []string {
	types := make([]string, 0, len(p.prices))
	for t := range p.prices {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
