package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		current, minimum int64
		want             StockStatus
	}{
		{0, 10, StockOut},
		{0, 0, StockOut},
		{1, 10, StockLow},
		{5, 10, StockLow},
		{10, 10, StockLow},
		{11, 10, StockNormal},
		{1, 0, StockNormal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyStock(tc.current, tc.minimum), "current=%d minimum=%d", tc.current, tc.minimum)
	}
}

func TestClassifyStock_ExactlyOneStatus(t *testing.T) {
	for current := int64(0); current <= 30; current++ {
		for minimum := int64(0); minimum <= 20; minimum++ {
			got := ClassifyStock(current, minimum)
			switch {
			case current == 0:
				assert.Equal(t, StockOut, got)
			case current <= minimum:
				assert.Equal(t, StockLow, got)
			default:
				assert.Equal(t, StockNormal, got)
			}
		}
	}
}

func TestStockLot_Status(t *testing.T) {
	lot := StockLot{CurrentQty: 2, MinimumQty: 10}
	assert.Equal(t, StockLow, lot.Status())
}
