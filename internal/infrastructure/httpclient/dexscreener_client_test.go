package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const pairsBody = `[{"chainId":"polygon","dexId":"uniswap","pairAddress":"0xpair",
	"baseToken":{"address":"0xc2132D05D31c914a87C6611C10748AEb04B58e8F","name":"Tether USD","symbol":"USDT"},
	"quoteToken":{"address":"0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359","name":"USD Coin","symbol":"USDC"},
	"priceNative":"1.0001","priceUsd":"0.9998","liquidity":{"usd":120000.5,"base":60000,"quote":60000}}]`

func newDEXServer(t *testing.T, status int, body string, gotPath *string) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestGetTokenPairsDirectArray(t *testing.T) {
	var path string
	url := newDEXServer(t, http.StatusOK, pairsBody, &path)
	c := NewDEXScreenerClient(url, time.Second, zap.NewNop(), 30)

	pairs, err := c.GetTokenPairsByAddresses(context.Background(), "polygon", []string{"0xa", "0xb"})
	require.NoError(t, err)
	assert.Equal(t, "/tokens/v1/polygon/0xa,0xb", path)
	require.Len(t, pairs, 1)
	assert.Equal(t, "USDT", pairs[0].BaseToken.Symbol)
	assert.Equal(t, "0.9998", pairs[0].PriceUsd)
	require.NotNil(t, pairs[0].Liquidity)
	assert.InDelta(t, 120000.5, pairs[0].Liquidity.Usd, 0.001)
}

func TestGetTokenPairsWrapped(t *testing.T) {
	url := newDEXServer(t, http.StatusOK, `{"schemaVersion":"1.0.0","pairs":`+pairsBody+`}`, nil)
	c := NewDEXScreenerClient(url, time.Second, zap.NewNop(), 30)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pairs, err := c.GetTokenPairsByAddresses(ctx, "polygon", []string{"0xa"})
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestGetTokenPairsErrors(t *testing.T) {
	url := newDEXServer(t, http.StatusTooManyRequests, `{"error":"rate limited"}`, nil)
	c := NewDEXScreenerClient(url, time.Second, zap.NewNop(), 2)

	_, err := c.GetTokenPairsByAddresses(context.Background(), "ethereum", []string{"0xa"})
	assert.ErrorContains(t, err, "status 429")

	_, err = c.GetTokenPairsByAddresses(context.Background(), "ethereum", nil)
	assert.Error(t, err)

	_, err = c.GetTokenPairsByAddresses(context.Background(), "ethereum", []string{"0xa", "0xb", "0xc"})
	assert.ErrorContains(t, err, "exceeds max tokens per request")
}
