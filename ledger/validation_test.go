package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
)

func TestValidateTransactionBalanced(t *testing.T) {
	txn := ast.NewTransaction(ast.NewDate(2008, 6, 3), ast.WithPostings(
		ast.NewPosting("expenses:food", ast.WithAmount("1", "$")),
		ast.NewPosting("expenses:supplies", ast.WithAmount("1", "$")),
		ast.NewPosting("assets:cash", ast.WithAmount("-2", "$")),
	))
	assert.NoError(t, ValidateTransaction(txn))
}

func TestValidateTransactionExactDecimal(t *testing.T) {
	txn := ast.NewTransaction(ast.NewDate(2008, 6, 3), ast.WithPostings(
		ast.NewPosting("a", ast.WithAmount("0.1", "$")),
		ast.NewPosting("b", ast.WithAmount("0.2", "$")),
		ast.NewPosting("c", ast.WithAmount("-0.3", "$")),
	))
	assert.NoError(t, ValidateTransaction(txn))

	txn = ast.NewTransaction(ast.NewDate(2008, 6, 3), ast.WithPostings(
		ast.NewPosting("a", ast.WithAmount("0.1", "$")),
		ast.NewPosting("b", ast.WithAmount("-0.1000000001", "$")),
	))
	err := ValidateTransaction(txn)
	var notBalanced *TransactionNotBalancedError
	assert.True(t, errors.As(err, &notBalanced))
	assert.Equal(t, "-0.0000000001", notBalanced.Sum.String())
	assert.Equal(t, txn, notBalanced.Transaction)
}

func TestValidateTransactionNotBalanced(t *testing.T) {
	txn := ast.NewTransaction(ast.NewDate(2008, 1, 1), ast.WithPostings(
		ast.NewPosting("assets:bank:checking", ast.WithAmount("1", "$")),
		ast.NewPosting("income:salary", ast.WithAmount("-2", "$")),
	))

	err := ValidateTransaction(txn)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "2008-01-01: Transaction does not balance")
}

func TestValidateTransactionOneElided(t *testing.T) {
	txn := ast.NewTransaction(ast.NewDate(2008, 1, 1), ast.WithPostings(
		ast.NewPosting("assets:bank:checking", ast.WithAmount("1", "$")),
		ast.NewPosting("assets:cash", ast.WithAmount("7", "$")),
		ast.NewPosting("income:salary"),
	))
	assert.NoError(t, ValidateTransaction(txn))
}

func TestValidateTransactionTwoElided(t *testing.T) {
	txn := ast.NewTransaction(ast.NewDate(2008, 1, 1), ast.WithPostings(
		ast.NewPosting("assets:bank:checking", ast.WithAmount("1", "$")),
		ast.NewPosting("income:salary"),
		ast.NewPosting("income:gifts"),
	))

	err := ValidateTransaction(txn)
	var elided *ElidedAmountsError
	assert.True(t, errors.As(err, &elided))
	assert.Equal(t, 2, elided.Count)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidateTransactionTotalPrice(t *testing.T) {
	// The total price replaces the amount in the sum.
	txn := ast.NewTransaction(ast.NewDate(2008, 1, 1), ast.WithPostings(
		ast.NewPosting("assets:euro", ast.WithAmount("100", "$"), ast.WithTotalPrice(ast.MustAmount("93.89", "€"))),
		ast.NewPosting("assets:cash", ast.WithAmount("-93.89", "€")),
	))
	assert.NoError(t, ValidateTransaction(txn))

	// A unit price does not.
	txn = ast.NewTransaction(ast.NewDate(2008, 1, 1), ast.WithPostings(
		ast.NewPosting("assets:euro", ast.WithAmount("100", "$"), ast.WithUnitPrice(ast.MustAmount("0.94", "€"))),
		ast.NewPosting("assets:cash", ast.WithAmount("-100", "$")),
	))
	assert.NoError(t, ValidateTransaction(txn))
}

func TestValidateTransactionNoPostings(t *testing.T) {
	assert.NoError(t, ValidateTransaction(ast.NewTransaction(ast.NewDate(2008, 1, 1))))
}
