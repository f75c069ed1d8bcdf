// Package ast defines the entities of an hledger-style journal: transactions and
// their postings, account, commodity and price directives, and the values produced
// by the top-level grammar rules. Every entity renders back to journal text through
// its String method.
//
// The constructor functions in this file build entities programmatically, for
// importers or tests. Transactions and postings take functional options.
package ast

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NewAmount creates an Amount from a decimal string such as "100.50" or "-42".
//
// Example:
//
//	amount, err := ast.NewAmount("45.60", "USD")
func NewAmount(value, currency string) (*Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return &Amount{Value: d, Currency: currency}, nil
}

// MustAmount is like NewAmount but panics on an invalid value.
func MustAmount(value, currency string) *Amount {
	a, err := NewAmount(value, currency)
	if err != nil {
		panic(err)
	}
	return a
}

// TransactionOption configures a Transaction built with NewTransaction.
type TransactionOption func(*Transaction)

// NewTransaction creates an unmarked transaction dated date.
//
// Example:
//
//	txn := ast.NewTransaction(ast.NewDate(2008, 1, 1),
//		ast.WithNote("income"),
//		ast.WithPostings(
//			ast.NewPosting("assets:bank:checking", ast.WithAmount("1", "$")),
//			ast.NewPosting("income:salary"),
//		),
//	)
func NewTransaction(date Date, opts ...TransactionOption) *Transaction {
	txn := &Transaction{Date: date}
	for _, opt := range opts {
		opt(txn)
	}
	return txn
}

// WithSecondaryDate sets the secondary (effective) date.
func WithSecondaryDate(date Date) TransactionOption {
	return func(t *Transaction) {
		t.SecondaryDate = &date
	}
}

// WithStatus sets the transaction status.
func WithStatus(status Status) TransactionOption {
	return func(t *Transaction) {
		t.Status = status
	}
}

// WithCode sets the transaction code.
func WithCode(code string) TransactionOption {
	return func(t *Transaction) {
		t.Code = &code
	}
}

// WithPayee sets the payee.
func WithPayee(payee string) TransactionOption {
	return func(t *Transaction) {
		t.Description.Payee = &payee
	}
}

// WithNote sets the note.
func WithNote(note string) TransactionOption {
	return func(t *Transaction) {
		t.Description.Note = &note
	}
}

// WithTags appends tags to the transaction.
func WithTags(tags ...Tag) TransactionOption {
	return func(t *Transaction) {
		t.Tags = append(t.Tags, tags...)
	}
}

// WithPostings appends postings to the transaction.
func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) {
		t.Postings = append(t.Postings, postings...)
	}
}

// NewTag creates a tag. An empty value produces a tag without value.
func NewTag(name, value string) Tag {
	if value == "" {
		return Tag{Name: name}
	}
	return Tag{Name: name, Value: &value}
}

// PostingOption configures a Posting built with NewPosting.
type PostingOption func(*Posting)

// NewPosting creates a posting to account. Without options the amount is elided.
func NewPosting(account Account, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithAmount sets the posting amount. It panics on an invalid value.
func WithAmount(value, currency string) PostingOption {
	return func(p *Posting) {
		p.Amount = MustAmount(value, currency)
	}
}

// WithUnitPrice sets the @ price and clears any total price.
func WithUnitPrice(price *Amount) PostingOption {
	return func(p *Posting) {
		p.UnitPrice = price
		p.TotalPrice = nil
	}
}

// WithTotalPrice sets the @@ price and clears any unit price.
func WithTotalPrice(price *Amount) PostingOption {
	return func(p *Posting) {
		p.TotalPrice = price
		p.UnitPrice = nil
	}
}

// WithBalanceAssertion sets the = assertion.
func WithBalanceAssertion(balance *Amount) PostingOption {
	return func(p *Posting) {
		p.BalanceAssertion = balance
	}
}

// WithPostingStatus sets the posting status.
func WithPostingStatus(status Status) PostingOption {
	return func(p *Posting) {
		p.Status = status
	}
}
