package restapi

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"multichain_swap/internal/app/controller"
	"multichain_swap/internal/app/port"
	"multichain_swap/internal/app/service"
	"multichain_swap/internal/domain/entity"
	networkdefinition "multichain_swap/internal/infrastructure/network/definition"
	"multichain_swap/internal/infrastructure/storage"
	"multichain_swap/internal/infrastructure/tokenloader"
	"multichain_swap/internal/infrastructure/viewsink"
	"multichain_swap/internal/infrastructure/walletloader"
	"multichain_swap/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const address = "0x1111000000000000000000000000000000002222"

type wallet struct {
	feed event.Feed
}

func (w *wallet) Kind() entity.ConnectorKind { return entity.ConnectorInjected }
func (w *wallet) RequestAccounts(context.Context) ([]string, error) {
	return []string{address}, nil
}
func (w *wallet) SwitchChain(context.Context, uint64) error                { return nil }
func (w *wallet) AddChain(context.Context, entity.NetworkDefinition) error { return nil }
func (w *wallet) Subscribe(ch chan<- entity.ProviderEvent) event.Subscription {
	return w.feed.Subscribe(ch)
}

type locator struct{ w *wallet }

func (l locator) Lookup(kind entity.ConnectorKind) (port.WalletProvider, bool) {
	if kind == entity.ConnectorInjected {
		return l.w, true
	}
	return nil, false
}
func (l locator) Available() []port.WalletProvider { return []port.WalletProvider{l.w} }

type recordingRelay struct {
	mu     sync.Mutex
	events []entity.ProviderEvent
}

func (r *recordingRelay) Relay(kind entity.ConnectorKind, ev entity.ProviderEvent) error {
	if kind != entity.ConnectorInjected {
		return entity.ErrProviderUnavailable
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Source = kind
	r.events = append(r.events, ev)
	return nil
}

type fixedPrices struct{}

func (fixedPrices) GetQuote(_ context.Context, network, symbol string) (entity.TokenQuote, error) {
	if symbol != "USDC" {
		return entity.TokenQuote{}, entity.ErrUnknownToken
	}
	return entity.TokenQuote{Token: entity.TokenInfo{Symbol: "USDC"}, Network: network, PriceUSD: 1, Priced: true}, nil
}

type apiFixture struct {
	app    *controller.AppController
	relay  *recordingRelay
	router *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()

	wallets, err := walletloader.NewWalletDefinitionLoader(log, "")
	require.NoError(t, err)
	tokens, err := tokenloader.NewTokenLoader(log, "")
	require.NoError(t, err)
	networks := networkdefinition.NewNetworkDefinitionProvider(log, "", nil)

	sink := viewsink.NewBroadcaster(log)
	store := service.NewSessionStore(storage.NewMemoryStore(), log)
	connections := service.NewConnectionManager(wallets, locator{w: &wallet{}}, store, viewsink.NewNavigator(sink, log), sink, log)
	coordinator := service.NewNetworkSwitchCoordinator(networks, connections, store, sink, log)
	app := controller.New(connections, coordinator, tokens, nil, store, sink, log)
	app.Init()

	relay := &recordingRelay{}
	h := NewHandler(HandlerDeps{
		App:      app,
		Networks: networks,
		Wallets:  wallets,
		Tokens:   tokens,
		Prices:   fixedPrices{},
		Relay:    relay,
		Stream:   sink,
		Logger:   log,
	})
	router := SetupRouter(h, zap.NewNop(), RouterOptions{MetricsEnabled: true})
	return &apiFixture{app: app, relay: relay, router: router}
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestGetState(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[controller.AppState](t, rec)
	assert.Equal(t, entity.ThemeDark, state.Theme)
	assert.Equal(t, "ethereum", state.SelectedNetwork.Identifier)
	assert.Equal(t, "Connect Wallet", state.Wallet.ButtonLabel)
	assert.True(t, state.BannerVisible)
}

func TestRegistries(t *testing.T) {
	f := newAPIFixture(t)

	networks := decode[[]entity.NetworkDefinition](t, f.do(http.MethodGet, "/api/v1/networks", ""))
	require.NotEmpty(t, networks)
	assert.Equal(t, "ethereum", networks[0].Identifier)

	wallets := decode[[]entity.WalletDefinition](t, f.do(http.MethodGet, "/api/v1/wallets", ""))
	assert.Len(t, wallets, 6)

	tokens := decode[[]entity.TokenInfo](t, f.do(http.MethodGet, "/api/v1/tokens", ""))
	assert.Len(t, tokens, 3)
}

func TestSelectNetwork(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/networks/polygon/select", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "polygon", decode[entity.NetworkView](t, rec).Identifier)

	rec = f.do(http.MethodPost, "/api/v1/networks/solana/select", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "polygon", f.app.Snapshot().SelectedNetwork.Identifier)
}

func TestConnectAndDisconnect(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/wallets/metamask/connect", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ConnectResponse](t, rec)
	assert.Equal(t, service.ConnectConnected, resp.Outcome)
	assert.Equal(t, "0x1111...2222", resp.Wallet.ButtonLabel)

	rec = f.do(http.MethodPost, "/api/v1/wallets/coinbase/connect", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ConnectNotImplemented, decode[ConnectResponse](t, rec).Outcome)

	rec = f.do(http.MethodPost, "/api/v1/wallets/ledger/connect", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/wallet/disconnect", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[entity.WalletView](t, rec).Connected)
	assert.Nil(t, f.app.Snapshot().Session)
}

func TestThemeAndModals(t *testing.T) {
	f := newAPIFixture(t)

	theme := decode[entity.ThemeView](t, f.do(http.MethodPost, "/api/v1/theme/toggle", ""))
	assert.Equal(t, entity.ThemeLight, theme.Theme)
	assert.Equal(t, controller.LogoLight, theme.LogoURL)

	toggled := decode[ToggleResponse](t, f.do(http.MethodPost, "/api/v1/modals/wallet/toggle", ""))
	assert.True(t, toggled.Open)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/modals/settings/toggle", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/modals/settings/close", "").Code)

	closed := decode[ToggleResponse](t, f.do(http.MethodPost, "/api/v1/modals/wallet/close", ""))
	assert.False(t, closed.Open)

	_, _ = f.app.ToggleModal(entity.ModalNetwork)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/api/v1/modals/close", "").Code)
	assert.Empty(t, f.app.Snapshot().OpenModals)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/api/v1/banner/close", "").Code)
	assert.False(t, f.app.Snapshot().BannerVisible)
}

func TestTokenSelection(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/token-modal/to/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ToggleResponse](t, rec).Open)

	rec = f.do(http.MethodPost, "/api/v1/tokens/usdt/select", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "USDT", decode[map[string]string](t, rec)["toToken"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/v1/tokens/doge/select", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/token-modal/up/toggle", "").Code)
	assert.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/v1/swap", "").Code)
}

func TestRelayProviderEvent(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/provider/injected/events", `{"type":"accountsChanged","accounts":["0xabc"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/provider/injected/events", `{"type":"chainChanged","chainId":"0x89"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/provider/injected/events", `{"type":"chainChanged","chainId":"89"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/provider/injected/events", `{"type":"chainChanged","chainId":"0x01"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Len(t, f.relay.events, 4)
	assert.Equal(t, []string{"0xabc"}, f.relay.events[0].Accounts)
	assert.EqualValues(t, 137, f.relay.events[1].ChainID)
	assert.EqualValues(t, 137, f.relay.events[2].ChainID, "chain ids are hexadecimal with or without 0x")
	assert.EqualValues(t, 1, f.relay.events[3].ChainID)

	for name, body := range map[string]string{
		"missing type":    `{"accounts":[]}`,
		"unknown type":    `{"type":"disconnect"}`,
		"missing chainId": `{"type":"chainChanged"}`,
		"bad chainId":     `{"type":"chainChanged","chainId":"0xzz"}`,
		"bare prefix":     `{"type":"chainChanged","chainId":"0x"}`,
		"not json":        `{`,
	} {
		body := body
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/provider/injected/events", body).Code)
		})
	}

	rec = f.do(http.MethodPost, "/api/v1/provider/phantom/events", `{"type":"accountsChanged","accounts":[]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBalanceAndPrices(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusConflict, f.do(http.MethodGet, "/api/v1/wallet/balance", "").Code)

	rec := f.do(http.MethodGet, "/api/v1/prices/ethereum/USDC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	quote := decode[entity.TokenQuote](t, rec)
	assert.True(t, quote.Priced)
	assert.InDelta(t, 1.0, quote.PriceUSD, 1e-9)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/prices/ethereum/DOGE", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStreamEvents(t *testing.T) {
	f := newAPIFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	nextEvent := func() (string, string) {
		t.Helper()
		var name string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\r\n")
			switch {
			case strings.HasPrefix(line, "event:"):
				name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:") && name != "":
				return name, strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
	}

	name, data := nextEvent()
	require.Equal(t, "state", name)
	assert.Contains(t, data, `"theme":"dark"`)

	f.app.ToggleTheme()
	name, data = nextEvent()
	require.Equal(t, string(entity.ViewThemeChanged), name)
	assert.Contains(t, data, `"light"`)
}
