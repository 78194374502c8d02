package common

import (
	"fmt"
	"strings"

	"evcharge-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintSeparatorNewline prints a separator with a newline before it
func PrintSeparatorNewline(char string, width int) {
	fmt.Println("\n" + strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxSeparator prints a box-drawing separator line (for sub-sections)
func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width))
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix returns the prefix for detail lines under list items
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}

// FormatMoney renders an amount with two decimals and a currency sign
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// StatusLabel returns a fixed-width status marker for station lists
func StatusLabel(status models.StationStatus) string {
	switch status {
	case models.StationAvailable:
		return "[ AVAILABLE ]"
	case models.StationOccupied:
		return "[ OCCUPIED  ]"
	case models.StationOffline:
		return "[ OFFLINE   ]"
	}
	return "[ " + strings.ToUpper(string(status)) + " ]"
}

// PrintStations prints one box line per station
func PrintStations(stations []models.Station) {
	for i, st := range stations {
		isLast := i == len(stations)-1
		fmt.Printf("%s #%-3d %s %-28s %-8s %-11s %s\n",
			BoxPrefix(isLast), st.Id, StatusLabel(st.Status), st.Name, st.Power, st.ConnectorType, st.Location)
	}
}

// PrintTransactions prints one box line per transaction
func PrintTransactions(transactions []models.Transaction) {
	for i, tx := range transactions {
		isLast := i == len(transactions)-1
		fmt.Printf("%s #%-4d %-28s %10s %10s  %s\n",
			BoxPrefix(isLast), tx.Id, tx.StationName, FormatMoney(tx.Amount), tx.Energy.String(),
			tx.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
