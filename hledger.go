// Package hledger reads hledger journals: transactions with balanced postings,
// account and commodity declarations, market prices and includes.
//
// Parse and ParseFile cover the common case. The loader, parser and ledger
// packages expose the individual steps.
package hledger

import (
	"context"

	"github.com/robinvdvleuten/hledger/errors"
	"github.com/robinvdvleuten/hledger/ledger"
	"github.com/robinvdvleuten/hledger/loader"
)

// Kind classifies errors returned by this module.
type Kind = errors.Kind

const (
	KindIO           = errors.KindIO
	KindParse        = errors.KindParse
	KindValidation   = errors.KindValidation
	KindIncludePath  = errors.KindIncludePath
	KindIncludeCycle = errors.KindIncludeCycle
	KindExtract      = errors.KindExtract
	KindUnknown      = errors.KindUnknown
)

// KindOf returns the Kind of err, or the empty Kind for nil.
func KindOf(err error) Kind {
	return errors.KindOf(err)
}

// Parse parses journal text. Includes are resolved against the loader's base
// directory, which defaults to the working directory.
func Parse(ctx context.Context, text string, opts ...loader.Option) (*ledger.Journal, error) {
	result, err := loader.New(opts...).LoadText(ctx, text)
	if err != nil {
		return nil, err
	}
	return result.Journal, nil
}

// ParseFile reads and parses the journal at path together with everything it
// includes.
func ParseFile(ctx context.Context, path string, opts ...loader.Option) (*ledger.Journal, error) {
	result, err := loader.New(opts...).Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return result.Journal, nil
}
