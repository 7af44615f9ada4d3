// internal/receipt/receipt.go
package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"franchise-pos/internal/models"

	"github.com/shopspring/decimal"
)

const (
	Width = 32

	nameWidth   = 16
	nameKeep    = 13
	amountWidth = 7

	currency        = "₹"
	timestampLayout = "02/01/2006 15:04"

	DefaultHeader = "FRANCHISE POS"
	DefaultFooter = "Thank you! Visit again"
)

var rule = strings.Repeat("-", Width)

type Options struct {
	Header   string
	Footer   string
	Location *time.Location
}

// Format renders bill as a fixed 32-column text receipt.
func Format(bill *models.Bill, opts Options) string {
	header := opts.Header
	if header == "" {
		header = DefaultHeader
	}
	footer := opts.Footer
	if footer == "" {
		footer = DefaultFooter
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(center(header))
	line(center(bill.CreatedAt.In(loc).Format(timestampLayout)))
	line(rule)
	line(padRight("Item", nameWidth) + "Qty  Amount")
	line(rule)
	for _, it := range bill.Items {
		line(ItemLine(it.ItemName, it.Qty, it.Subtotal()))
	}
	line(rule)
	line(padRight("TOTAL", nameWidth+4) + Amount(bill.Total))
	line(padRight("PAYMENT", nameWidth+4) + strings.ToUpper(string(bill.ModePayment)))
	line(rule)
	line(center(footer))
	return b.String()
}

// ItemLine renders one item row: name(16) qty(3) amount(7).
func ItemLine(name string, qty int, amount decimal.Decimal) string {
	return padRight(TruncateName(name), nameWidth) + fmt.Sprintf("%3d ", qty) + Amount(amount)
}

// TruncateName cuts names longer than the name column to 13 runes plus "...".
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= nameWidth {
		return name
	}
	return string([]rune(name)[:nameKeep]) + "..."
}

// Amount renders a currency value with two decimals, right-padded to the
// amount column width.
func Amount(v decimal.Decimal) string {
	return padRight(currency+" "+v.StringFixed(2), amountWidth)
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func center(s string) string {
	r := []rune(s)
	if len(r) >= Width {
		return string(r[:Width])
	}
	return strings.Repeat(" ", (Width-len(r))/2) + s
}
