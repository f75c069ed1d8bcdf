package ast

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Amount represents an exact decimal quantity of a commodity. The currency may be a
// symbol placed before the number ("$100") or a name placed after it ("100 EUR").
// Currencies containing spaces or grammar characters are written in double quotes.
//
// Example amounts:
//
//	$100
//	-$12.50
//	100 EUR
//	3 "silver coins"
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

// Equal reports whether both amounts have the same currency and numeric value.
// Trailing zeros are not significant: 100 and 100.00 are equal.
func (a Amount) Equal(other Amount) bool {
	return a.Currency == other.Currency && a.Value.Equal(other.Value)
}

// String renders the amount so that parsing it again yields an equal Amount.
func (a Amount) String() string {
	value := a.Value.String()
	if a.Currency == "" {
		return value
	}

	currency := QuoteCurrency(a.Currency)
	if !isSymbol(a.Currency) {
		return value + " " + currency
	}

	if a.Value.IsNegative() {
		return "-" + currency + a.Value.Abs().String()
	}
	return currency + value
}

// isSymbol reports whether a currency is a single non-letter rune such as "$" or "€",
// which is conventionally written in front of the number.
func isSymbol(currency string) bool {
	r, size := utf8.DecodeRuneInString(currency)
	if size != len(currency) || r == utf8.RuneError {
		return false
	}
	return !unicode.IsLetter(r) && IsCurrencyRune(r)
}

// IsCurrencyRune reports whether r may appear in an unquoted currency name.
func IsCurrencyRune(r rune) bool {
	switch r {
	case '-', '+', ' ', '\t', '\r', '\n', '"', '@', '=', ';':
		return false
	}
	return !unicode.IsDigit(r)
}

// QuoteCurrency returns the currency as it must be written in a journal, wrapping it
// in double quotes when it contains characters an unquoted currency cannot hold.
func QuoteCurrency(currency string) string {
	if currency == "" {
		return `""`
	}
	for _, r := range currency {
		if !IsCurrencyRune(r) {
			return `"` + currency + `"`
		}
	}
	return currency
}

// Date is a calendar day without a time of day. Dates are stored at midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day. It does not check that
// the combination exists; use ValidDate for that.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ValidDate reports whether the year, month and day form a real calendar date.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= DaysIn(year, time.Month(month))
}

// DaysIn returns the number of days in the month of the given year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsZero reports whether the date is nil or the zero time. It is declared on the
// pointer so that repr and other reflection-based tools can call it on a nil
// *Date, such as a transaction without a secondary date.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Status is the clearing state of a transaction or posting.
type Status int

const (
	Unmarked Status = iota
	Pending
	Cleared
)

// String returns the status marker: "", "!" or "*".
func (s Status) String() string {
	switch s {
	case Pending:
		return "!"
	case Cleared:
		return "*"
	default:
		return ""
	}
}

// Account represents a hierarchical account name whose components are separated by
// colons. Unlike the names of some other plaintext formats, components are free text
// and may contain spaces.
//
// Example accounts:
//
//	assets:bank:checking
//	expenses:food:dining out
//	liabilities:debts
type Account string

// AccountSeparator separates the components of an account name.
const AccountSeparator = ":"

// Components splits the account into its colon-separated parts.
func (a Account) Components() []string {
	return strings.Split(string(a), AccountSeparator)
}

// Depth returns the number of components in the account name.
func (a Account) Depth() int {
	return strings.Count(string(a), AccountSeparator) + 1
}

// Parent returns the account one level up, or the empty account for a top-level name.
func (a Account) Parent() Account {
	i := strings.LastIndex(string(a), AccountSeparator)
	if i < 0 {
		return ""
	}
	return a[:i]
}

// IsChildOf reports whether a is strictly below parent in the account hierarchy.
// "assets:cash" is a child of "assets" but "assetsx" is not.
func (a Account) IsChildOf(parent Account) bool {
	return len(a) > len(parent) &&
		strings.HasPrefix(string(a), string(parent)) &&
		strings.HasPrefix(string(a[len(parent):]), AccountSeparator)
}

// Tag is a name with an optional value attached to a transaction in its trailing
// comment, written as "name:" or "name:value". Values may contain spaces but not
// commas, which separate tags.
type Tag struct {
	Name  string
	Value *string
}

// String renders the tag as it appears in a comment.
func (t Tag) String() string {
	name := t.Name
	if strings.ContainsAny(name, " \t:,") {
		name = `"` + name + `"`
	}
	if t.Value == nil {
		return name + ":"
	}
	return name + ":" + *t.Value
}

// Description holds the payee and note of a transaction. Either may be absent,
// which is distinct from being empty.
//
// Example descriptions:
//
//	Acme | monthly invoice    ; payee and note
//	monthly invoice           ; note only
//	Acme |                    ; payee only
type Description struct {
	Payee *string
	Note  *string
}

// IsEmpty reports whether neither payee nor note is set.
func (d Description) IsEmpty() bool {
	return d.Payee == nil && d.Note == nil
}

// String renders the description in the "payee | note" form.
func (d Description) String() string {
	switch {
	case d.Payee != nil && d.Note != nil:
		return escapeDescription(*d.Payee) + " | " + escapeDescription(*d.Note)
	case d.Payee != nil:
		return escapeDescription(*d.Payee) + " |"
	case d.Note != nil:
		note := escapeDescription(*d.Note)
		if strings.Contains(note, "|") {
			return "| " + note
		}
		return note
	default:
		return ""
	}
}

// HeaderMarkers are the characters that start a code or a status in a transaction
// header. A description starting with one of them is written with a leading
// backslash.
const HeaderMarkers = "(*!"

func escapeDescription(s string) string {
	return strings.ReplaceAll(s, ";", `\;`)
}
