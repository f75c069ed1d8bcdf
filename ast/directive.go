package ast

import "strings"

// AccountDirective declares an account name.
//
//	account assets:bank:checking
type AccountDirective struct {
	Pos  Position
	Name Account
}

func (a *AccountDirective) String() string {
	return "account " + string(a.Name)
}

// Commodity declares a commodity and, optionally, the sample amount that describes
// how it is displayed. The format is kept verbatim and not interpreted.
//
// Example declarations:
//
//	commodity $1000.00
//	commodity 1000.00 USD
//	commodity INR
//	commodity USD
//	    format 1000.00USD
type Commodity struct {
	Pos    Position
	Name   string
	Format *string
}

func (c *Commodity) String() string {
	if c.Format == nil {
		return "commodity " + QuoteCurrency(c.Name)
	}
	return "commodity " + QuoteCurrency(c.Name) + "\n    format " + *c.Format
}

// Price declares that on Date one unit of Commodity was worth Amount.
//
//	P 2017-01-01 EUR 9.552532877 SEK
type Price struct {
	Pos       Position
	Date      Date
	Commodity string
	Amount    Amount
}

func (p *Price) String() string {
	return strings.Join([]string{"P", p.Date.String(), QuoteCurrency(p.Commodity), p.Amount.String()}, " ")
}
