// Package ledger assembles parsed journal values into a Journal and enforces the
// semantic rules of the format: every transaction must balance, and every account
// used by a posting can be checked against the declared accounts.
//
// Example usage:
//
//	values, err := parser.Parse(ctx, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	journal, err := ledger.New(values)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := journal.ValidateAccounts(); err != nil {
//	    var undefined *ledger.UndefinedAccountsError
//	    if errors.As(err, &undefined) {
//	        fmt.Println(undefined.Accounts)
//	    }
//	}
package ledger

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/hledger/ast"
)

// Journal is the assembled content of a journal and all of its includes. It is
// built once and not modified afterwards.
type Journal struct {
	transactions []*ast.Transaction
	accounts     []ast.Account
	prices       []*ast.Price
	commodities  []*ast.Commodity
}

// New flattens values and partitions them into a Journal, dropping blank and
// comment lines. Source order is kept within each collection.
func New(values []ast.Value) (*Journal, error) {
	j := &Journal{}
	for _, v := range ast.Flatten(values) {
		switch v := v.(type) {
		case ast.Ignore:
		case *ast.Transaction:
			j.transactions = append(j.transactions, v)
		case *ast.AccountDirective:
			j.accounts = append(j.accounts, v.Name)
		case *ast.Price:
			j.prices = append(j.prices, v)
		case *ast.Commodity:
			j.commodities = append(j.commodities, v)
		default:
			return nil, &ast.ExtractError{Want: "journal entry", Got: v}
		}
	}
	return j, nil
}

// Transactions returns the transactions in source order.
func (j *Journal) Transactions() []*ast.Transaction {
	return slices.Clone(j.transactions)
}

// Accounts returns the declared account names in source order.
func (j *Journal) Accounts() []ast.Account {
	return slices.Clone(j.accounts)
}

// Prices returns the price directives in source order.
func (j *Journal) Prices() []*ast.Price {
	return slices.Clone(j.prices)
}

// Commodities returns the commodity directives in source order.
func (j *Journal) Commodities() []*ast.Commodity {
	return slices.Clone(j.commodities)
}

// Payees returns the distinct payees of all transactions, sorted.
func (j *Journal) Payees() []string {
	var payees []string
	for _, txn := range j.transactions {
		if txn.Description.Payee != nil {
			payees = append(payees, *txn.Description.Payee)
		}
	}
	slices.Sort(payees)
	return slices.Compact(payees)
}

// UsedAccounts returns every distinct account referenced by a posting, in the order
// of first use.
func (j *Journal) UsedAccounts() []ast.Account {
	seen := make(map[ast.Account]bool)
	var used []ast.Account
	for _, txn := range j.transactions {
		for _, p := range txn.Postings {
			if !seen[p.Account] {
				seen[p.Account] = true
				used = append(used, p.Account)
			}
		}
	}
	return used
}

// ValidateAccounts returns an UndefinedAccountsError listing the accounts used by
// postings that no account directive declares.
func (j *Journal) ValidateAccounts() error {
	declared := make(map[ast.Account]bool, len(j.accounts))
	for _, a := range j.accounts {
		declared[a] = true
	}

	var undefined []ast.Account
	for _, a := range j.UsedAccounts() {
		if !declared[a] {
			undefined = append(undefined, a)
		}
	}
	if len(undefined) > 0 {
		return &UndefinedAccountsError{Accounts: undefined}
	}
	return nil
}

// String renders the journal: account directives, commodities, prices and then the
// transactions separated by blank lines.
func (j *Journal) String() string {
	var sections []string
	if len(j.accounts) > 0 {
		lines := make([]string, len(j.accounts))
		for i, a := range j.accounts {
			lines[i] = (&ast.AccountDirective{Name: a}).String()
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if len(j.commodities) > 0 {
		lines := make([]string, len(j.commodities))
		for i, c := range j.commodities {
			lines[i] = c.String()
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if len(j.prices) > 0 {
		lines := make([]string, len(j.prices))
		for i, p := range j.prices {
			lines[i] = p.String()
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	for _, txn := range j.transactions {
		sections = append(sections, txn.String())
	}
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}
