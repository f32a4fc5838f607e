package orders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPriceTable(t *testing.T) {
	tests := []struct {
		orderType string
		want      int
	}{
		{"tow_flat_bed", 100},
		{"tow_wheel_lift", 500},
		{"jump_start", 1000},
		{"jump_start_msj", 1000},
		{"flat_tire_with_spare_tire_msj", 2000},
		{"lock_out_key", 3000},
		{"delivery_gasoline_msj", 4000},
		{"winch_out", 5000},
		{"Winch_Out", 0},
		{"unknown", 0},
		{"", 0},
	}

	table := DefaultPriceTable()
	for _, tt := range tests {
		t.Run(tt.orderType, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Price(tt.orderType))
		})
	}
}

func TestLoadPriceTable(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("empty path uses defaults", func(t *testing.T) {
		table, err := LoadPriceTable("")
		require.NoError(t, err)
		assert.Equal(t, 100, table.Price("tow_flat_bed"))
	})

	t.Run("overrides and additions", func(t *testing.T) {
		path := write("prices.yaml", "prices:\n  tow_flat_bed: 150\n  battery_swap: 700\n")
		table, err := LoadPriceTable(path)
		require.NoError(t, err)
		assert.Equal(t, 150, table.Price("tow_flat_bed"))
		assert.Equal(t, 700, table.Price("battery_swap"))
		assert.Equal(t, 500, table.Price("tow_wheel_lift"))
		assert.Contains(t, table.Types(), "battery_swap")
	})

	t.Run("does not modify defaults", func(t *testing.T) {
		assert.Equal(t, 100, DefaultPriceTable().Price("tow_flat_bed"))
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := LoadPriceTable(write("neg.yaml", "prices:\n  winch_out: -1\n"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadPriceTable(write("bad.yaml", "prices: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPriceTable(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
