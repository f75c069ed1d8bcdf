package hledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/loader"
)

func TestParseFile(t *testing.T) {
	journal, err := ParseFile(context.Background(), filepath.Join("testdata", "sample.journal"), loader.WithAccountCheck())
	assert.NoError(t, err)

	assert.Equal(t, 5, len(journal.Transactions()))
	assert.Equal(t, 6, len(journal.Accounts()))
	assert.Equal(t, 2, len(journal.Prices()))
	assert.Equal(t, 2, len(journal.Commodities()))
	assert.Equal(t, []string{"Acme Corp", "Bakery", "Landlord"}, journal.Payees())

	rent := journal.Transactions()[2]
	assert.Equal(t, ast.Pending, rent.Status)
	assert.Equal(t, "1001", *rent.Code)
	assert.Equal(t, "sample.journal", filepath.Base(rent.Pos.Filename))
}

func TestParse(t *testing.T) {
	journal, err := Parse(context.Background(), `account assets:cash

2024-01-01 lunch
    expenses:food  $12
    assets:cash
`)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(journal.Transactions()))
	assert.Equal(t, []ast.Account{"assets:cash"}, journal.Accounts())
}

func TestParseWithBaseDir(t *testing.T) {
	journal, err := Parse(context.Background(), "include prices.journal\n", loader.WithBaseDir("testdata"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(journal.Prices()))
}

func TestKindOf(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	loop := filepath.Join(dir, "loop.journal")
	assert.NoError(t, os.WriteFile(loop, []byte("include loop.journal\n"), 0o644))

	tests := []struct {
		name string
		run  func() error
		want Kind
	}{
		{"Nil", func() error { return nil }, ""},
		{"IO", func() error {
			_, err := ParseFile(ctx, filepath.Join(dir, "missing.journal"))
			return err
		}, KindIO},
		{"Parse", func() error {
			_, err := Parse(ctx, "garbage\n")
			return err
		}, KindParse},
		{"InvalidDate", func() error {
			_, err := Parse(ctx, "2023-02-29 leap\n    a  $1\n    b\n")
			return err
		}, KindParse},
		{"Validation", func() error {
			_, err := Parse(ctx, "2024-01-01 x\n    a  $1\n    b  $1\n")
			return err
		}, KindValidation},
		{"UndefinedAccounts", func() error {
			_, err := Parse(ctx, "2024-01-01 x\n    a  $1\n    b\n", loader.WithAccountCheck())
			return err
		}, KindValidation},
		{"IncludePath", func() error {
			_, err := Parse(ctx, "include nowhere.journal\n", loader.WithBaseDir(dir))
			return err
		}, KindIncludePath},
		{"IncludeCycle", func() error {
			_, err := ParseFile(ctx, loop)
			return err
		}, KindIncludeCycle},
		{"Extract", func() error {
			_, err := ast.Extract[*ast.Price](ast.Ignore{})
			return err
		}, KindExtract},
		{"Canceled", func() error {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Parse(canceled, "include prices.journal\n", loader.WithBaseDir("testdata"))
			return err
		}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.run()))
		})
	}
}
