package common

import (
	"testing"

	"evcharge-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"4.5":   "$4.50",
		"15.50": "$15.50",
		"0":     "$0.00",
	}
	for in, want := range tests {
		if got := FormatMoney(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatMoney(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusLabel_FixedWidth(t *testing.T) {
	width := len(StatusLabel(models.StationAvailable))
	for _, status := range []models.StationStatus{models.StationOccupied, models.StationOffline} {
		if got := len(StatusLabel(status)); got != width {
			t.Errorf("StatusLabel(%s) has width %d, want %d", status, got, width)
		}
	}
}
