package ast

import "strings"

// Posting is one account line of a transaction. The amount may be elided, in which
// case it is inferred to balance the transaction. A unit price (@) and a total price
// (@@) are mutually exclusive.
//
// Example postings:
//
//	assets:cash              $100
//	! assets:cash            $100 @ EUR0.94
//	expenses:gifts           $100 @@ €93.89 = $400
//	income:salary
type Posting struct {
	Pos              Position
	Status           Status
	Account          Account
	Amount           *Amount
	UnitPrice        *Amount
	TotalPrice       *Amount
	BalanceAssertion *Amount
	Comment          string
}

// Weight returns the amount this posting contributes to the transaction sum: the
// total price when one is given, otherwise the posting amount. It returns nil when
// the amount is elided.
func (p *Posting) Weight() *Amount {
	if p.Amount == nil {
		return nil
	}
	if p.TotalPrice != nil {
		return p.TotalPrice
	}
	return p.Amount
}

// String renders the posting without indentation.
func (p *Posting) String() string {
	var buf strings.Builder
	if p.Status != Unmarked {
		buf.WriteString(p.Status.String())
		buf.WriteByte(' ')
	}
	buf.WriteString(string(p.Account))
	if tail := p.AmountText(); tail != "" {
		buf.WriteString("  ")
		buf.WriteString(tail)
	}
	return buf.String()
}

// AmountText renders everything after the account: amount, price, assertion and
// comment.
func (p *Posting) AmountText() string {
	var parts []string
	if p.Amount != nil {
		parts = append(parts, p.Amount.String())
		switch {
		case p.TotalPrice != nil:
			parts = append(parts, "@@", p.TotalPrice.String())
		case p.UnitPrice != nil:
			parts = append(parts, "@", p.UnitPrice.String())
		}
	}
	if p.BalanceAssertion != nil {
		parts = append(parts, "=", p.BalanceAssertion.String())
	}
	if p.Comment != "" {
		parts = append(parts, "; "+p.Comment)
	}
	return strings.Join(parts, " ")
}

// Transaction is a dated, balanced set of postings.
//
// Example transaction:
//
//	2008/06/03=2008/06/05 * (1042) Acme | eat & shop ; trip:, project:kitchen
//	    expenses:food      $1
//	    expenses:supplies  $1
//	    assets:cash
type Transaction struct {
	Pos           Position
	Date          Date
	SecondaryDate *Date
	Status        Status
	Code          *string
	Description   Description
	Postings      []*Posting
	Tags          []Tag
}

// Payee returns the payee, or the empty string when absent.
func (t *Transaction) Payee() string {
	if t.Description.Payee == nil {
		return ""
	}
	return *t.Description.Payee
}

// Header renders the first line of the transaction.
func (t *Transaction) Header() string {
	var buf strings.Builder
	buf.WriteString(t.Date.String())
	if t.SecondaryDate != nil {
		buf.WriteByte('=')
		buf.WriteString(t.SecondaryDate.String())
	}
	if t.Status != Unmarked {
		buf.WriteByte(' ')
		buf.WriteString(t.Status.String())
	}
	if t.Code != nil {
		buf.WriteString(" (")
		buf.WriteString(*t.Code)
		buf.WriteByte(')')
	}
	if desc := t.Description.String(); desc != "" {
		buf.WriteByte(' ')
		if t.Code == nil && t.leadsLikeMarker(desc) {
			buf.WriteByte('\\')
		}
		buf.WriteString(desc)
	}
	if len(t.Tags) > 0 {
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = tag.String()
		}
		buf.WriteString(" ; ")
		buf.WriteString(strings.Join(tags, ", "))
	}
	return buf.String()
}

// leadsLikeMarker reports whether desc, written right after the date and status,
// would be read back as a code or a status marker.
func (t *Transaction) leadsLikeMarker(desc string) bool {
	switch desc[0] {
	case '(':
		return true
	case '*', '!':
		return t.Status == Unmarked
	}
	return false
}

// String renders the transaction with its postings indented by four spaces.
func (t *Transaction) String() string {
	var buf strings.Builder
	buf.WriteString(t.Header())
	for _, p := range t.Postings {
		buf.WriteString("\n    ")
		buf.WriteString(p.String())
	}
	return buf.String()
}
