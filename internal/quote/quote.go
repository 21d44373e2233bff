// Package quote talks to the external price source. The rest of the system
// only sees the Provider interface.
package quote

import (
	"context"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Price    decimal.Decimal
	Currency string
}

type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (Quote, error)
}
