package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/hledger/ast"
)

// ErrValidation matches every semantic validation error with errors.Is.
var ErrValidation = errors.New("validation failed")

// location formats the filename:line prefix of an error, falling back to the
// transaction date when the position is unknown.
func location(pos ast.Position, txn *ast.Transaction) string {
	if pos.Filename != "" {
		return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
	}
	if pos.Line > 0 {
		return fmt.Sprintf("line %d", pos.Line)
	}
	if txn != nil {
		return txn.Date.String()
	}
	return "journal"
}

// TransactionNotBalancedError is returned when the postings of a transaction do not
// sum to zero.
type TransactionNotBalancedError struct {
	Pos         ast.Position
	Sum         decimal.Decimal
	Transaction *ast.Transaction
}

func (e *TransactionNotBalancedError) Error() string {
	return fmt.Sprintf("%s: Transaction does not balance: postings sum to %s", location(e.Pos, e.Transaction), e.Sum)
}

func (e *TransactionNotBalancedError) GetPosition() ast.Position {
	return e.Pos
}

func (e *TransactionNotBalancedError) GetTransaction() *ast.Transaction {
	return e.Transaction
}

func (e *TransactionNotBalancedError) Is(target error) bool {
	return target == ErrValidation
}

// ElidedAmountsError is returned when more than one posting of a transaction has
// no amount.
type ElidedAmountsError struct {
	Pos         ast.Position
	Count       int
	Transaction *ast.Transaction
}

func (e *ElidedAmountsError) Error() string {
	return fmt.Sprintf("%s: Transaction has %d postings with missing amounts, at most 1 is allowed", location(e.Pos, e.Transaction), e.Count)
}

func (e *ElidedAmountsError) GetPosition() ast.Position {
	return e.Pos
}

func (e *ElidedAmountsError) GetTransaction() *ast.Transaction {
	return e.Transaction
}

func (e *ElidedAmountsError) Is(target error) bool {
	return target == ErrValidation
}

// UndefinedAccountsError lists accounts used by postings but never declared with an
// account directive.
type UndefinedAccountsError struct {
	Accounts []ast.Account
}

func (e *UndefinedAccountsError) Error() string {
	names := make([]string, len(e.Accounts))
	for i, a := range e.Accounts {
		names[i] = string(a)
	}
	return fmt.Sprintf("undefined accounts: %s", strings.Join(names, ", "))
}

func (e *UndefinedAccountsError) Is(target error) bool {
	return target == ErrValidation
}
