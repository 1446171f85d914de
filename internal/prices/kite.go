package prices

import (
	"context"
	"fmt"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"portfolio-dashboard/internal/interfaces"
)

// LTPClient is the slice of the Kite Connect client the provider needs.
type LTPClient interface {
	GetLTP(instruments ...string) (kiteconnect.QuoteLTP, error)
}

// KiteProvider reads last traded prices from Kite Connect.
type KiteProvider struct {
	kc       LTPClient
	exchange string
}

var _ interfaces.PriceProvider = (*KiteProvider)(nil)

// NewKite builds a Kite Connect client from credentials.
func NewKite(apiKey, accessToken, exchange string) *KiteProvider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return NewKiteWithClient(kc, exchange)
}

func NewKiteWithClient(kc LTPClient, exchange string) *KiteProvider {
	if exchange == "" {
		exchange = "NSE"
	}
	return &KiteProvider{kc: kc, exchange: exchange}
}

func (k *KiteProvider) Name() string { return "KITE" }

func (k *KiteProvider) instrument(symbol string) string {
	return k.exchange + ":" + symbol
}

func (k *KiteProvider) Next(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	inst := k.instrument(symbol)
	ltp, err := k.kc.GetLTP(inst)
	if err != nil {
		return 0, fmt.Errorf("kite ltp %s: %w", inst, err)
	}
	q, ok := ltp[inst]
	if !ok {
		return 0, fmt.Errorf("kite ltp %s: %w", inst, ErrUnknownSymbol)
	}
	return q.LastPrice, nil
}
