package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/hledger/ast"
)

// ValidateTransaction checks the structural invariant every transaction must hold:
// at most one posting may elide its amount, and when none does, the postings must
// sum to exactly zero. Each posting contributes its total price when it has one and
// its amount otherwise. Currencies are not separated and no tolerance is applied.
func ValidateTransaction(txn *ast.Transaction) error {
	elided := 0
	for _, p := range txn.Postings {
		if p.Amount == nil {
			elided++
		}
	}

	switch {
	case elided > 1:
		return &ElidedAmountsError{Pos: txn.Pos, Count: elided, Transaction: txn}
	case elided == 1:
		return nil
	}

	sum := decimal.Zero
	for _, p := range txn.Postings {
		sum = sum.Add(p.Weight().Value)
	}
	if !sum.IsZero() {
		return &TransactionNotBalancedError{Pos: txn.Pos, Sum: sum, Transaction: txn}
	}
	return nil
}
