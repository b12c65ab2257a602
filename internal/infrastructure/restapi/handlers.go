package restapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"multichain_swap/internal/app/controller"
	"multichain_swap/internal/app/port"
	"multichain_swap/internal/app/service"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/infrastructure/viewsink"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConnectResponse reports how a connection attempt ended.
type ConnectResponse struct {
	Outcome service.ConnectOutcome `json:"outcome"`
	Wallet  entity.WalletView      `json:"wallet"`
}

// ToggleResponse reports the state of a modal after a toggle.
type ToggleResponse struct {
	Modal entity.Modal `json:"modal"`
	Open  bool         `json:"open"`
}

// ProviderEventRequest is a wallet notification observed by a page shim.
// ChainID accepts the EIP-1193 hex form ("0x89") or a decimal string.
type ProviderEventRequest struct {
	Type     entity.ProviderEventType `json:"type" binding:"required"`
	Accounts []string                 `json:"accounts"`
	ChainID  string                   `json:"chainId"`
}

// HandlerDeps bundles what the API handlers need.
type HandlerDeps struct {
	App      *controller.AppController
	Networks port.NetworkDefinitionProvider
	Wallets  port.WalletDefinitionProvider
	Tokens   port.TokenProvider
	Prices   port.TokenPriceService
	Relay    port.ProviderEventRelay
	Stream   *viewsink.Broadcaster
	Logger   port.Logger
}

// Handler serves the page API.
type Handler struct {
	HandlerDeps
}

// NewHandler creates a Handler. Prices may be nil when price lookups are disabled.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{HandlerDeps: deps}
}

func abortWith(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

// GetState returns the current page state.
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.App.Snapshot())
}

// ListNetworks returns the network registry in display order.
func (h *Handler) ListNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, h.Networks.GetAllNetworkDefinitions())
}

// ListWallets returns the wallet registry in display order.
func (h *Handler) ListWallets(c *gin.Context) {
	c.JSON(http.StatusOK, h.Wallets.GetAllWalletDefinitions())
}

// ListTokens returns the token selector catalog.
func (h *Handler) ListTokens(c *gin.Context) {
	c.JSON(http.StatusOK, h.Tokens.GetTokens())
}

// SelectNetwork selects :network and asks a connected wallet to follow.
func (h *Handler) SelectNetwork(c *gin.Context) {
	if err := h.App.SelectNetwork(c.Request.Context(), c.Param("network")); err != nil {
		abortWith(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, h.App.Snapshot().SelectedNetwork)
}

// ConnectWallet runs the connection flow for :wallet.
func (h *Handler) ConnectWallet(c *gin.Context) {
	walletID := c.Param("wallet")
	outcome := h.App.ConnectWallet(c.Request.Context(), walletID)
	if outcome == service.ConnectUnknownWallet {
		abortWith(c, http.StatusNotFound, fmt.Errorf("%w: %s", entity.ErrUnknownWallet, walletID))
		return
	}
	c.JSON(http.StatusOK, ConnectResponse{Outcome: outcome, Wallet: h.App.Snapshot().Wallet})
}

// DisconnectWallet drops the wallet session.
func (h *Handler) DisconnectWallet(c *gin.Context) {
	h.App.DisconnectWallet()
	c.JSON(http.StatusOK, h.App.Snapshot().Wallet)
}

// ToggleTheme flips the theme.
func (h *Handler) ToggleTheme(c *gin.Context) {
	theme := h.App.ToggleTheme()
	c.JSON(http.StatusOK, entity.ThemeView{Theme: theme, LogoURL: controller.LogoFor(theme)})
}

// ToggleModal toggles :modal.
func (h *Handler) ToggleModal(c *gin.Context) {
	m := entity.Modal(c.Param("modal"))
	open, err := h.App.ToggleModal(m)
	if err != nil {
		abortWith(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Modal: m, Open: open})
}

// CloseModal closes :modal.
func (h *Handler) CloseModal(c *gin.Context) {
	m := entity.Modal(c.Param("modal"))
	if err := h.App.CloseModal(m); err != nil {
		abortWith(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Modal: m, Open: false})
}

// CloseAllModals closes every modal.
func (h *Handler) CloseAllModals(c *gin.Context) {
	h.App.CloseAllModals()
	c.Status(http.StatusNoContent)
}

// ToggleTokenModal toggles the token picker for the :target side of the swap.
func (h *Handler) ToggleTokenModal(c *gin.Context) {
	open, err := h.App.ToggleTokenModal(entity.TokenTarget(c.Param("target")))
	if err != nil {
		abortWith(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Modal: entity.ModalToken, Open: open})
}

// SelectToken assigns :symbol to the side the token picker was opened for.
func (h *Handler) SelectToken(c *gin.Context) {
	if err := h.App.SelectToken(c.Param("symbol")); err != nil {
		abortWith(c, http.StatusNotFound, err)
		return
	}
	state := h.App.Snapshot()
	c.JSON(http.StatusOK, gin.H{"fromToken": state.FromToken, "toToken": state.ToToken})
}

// CloseBanner hides the top banner.
func (h *Handler) CloseBanner(c *gin.Context) {
	h.App.CloseBanner()
	c.Status(http.StatusNoContent)
}

// Swap accepts a swap request. Swaps are not executed.
func (h *Handler) Swap(c *gin.Context) {
	h.App.Swap()
	c.Status(http.StatusAccepted)
}

// GetBalance returns the connected wallet's native balance on the selected network.
func (h *Handler) GetBalance(c *gin.Context) {
	balance, err := h.App.Balance(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, balance)
	case errors.Is(err, entity.ErrNotConnected):
		abortWith(c, http.StatusConflict, err)
	case errors.Is(err, entity.ErrUnknownNetwork):
		abortWith(c, http.StatusNotFound, err)
	default:
		h.Logger.Warn("Balance lookup failed", "error", err)
		abortWith(c, http.StatusBadGateway, err)
	}
}

// GetPrice quotes :symbol in USD on :network.
func (h *Handler) GetPrice(c *gin.Context) {
	if h.Prices == nil {
		abortWith(c, http.StatusServiceUnavailable, errors.New("price lookups disabled"))
		return
	}
	quote, err := h.Prices.GetQuote(c.Request.Context(), c.Param("network"), c.Param("symbol"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, quote)
	case errors.Is(err, entity.ErrUnknownNetwork), errors.Is(err, entity.ErrUnknownToken):
		abortWith(c, http.StatusNotFound, err)
	default:
		abortWith(c, http.StatusBadGateway, err)
	}
}

// RelayProviderEvent injects a notification for the :connector bridge.
func (h *Handler) RelayProviderEvent(c *gin.Context) {
	var req ProviderEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err)
		return
	}
	ev, err := req.toEvent()
	if err != nil {
		abortWith(c, http.StatusBadRequest, err)
		return
	}

	kind := entity.ConnectorKind(c.Param("connector"))
	if err := h.Relay.Relay(kind, ev); err != nil {
		if errors.Is(err, entity.ErrProviderUnavailable) {
			abortWith(c, http.StatusNotFound, err)
			return
		}
		abortWith(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (r ProviderEventRequest) toEvent() (entity.ProviderEvent, error) {
	switch r.Type {
	case entity.ProviderAccountsChanged:
		return entity.ProviderEvent{Type: r.Type, Accounts: r.Accounts}, nil
	case entity.ProviderChainChanged:
		chainID, err := parseChainID(r.ChainID)
		if err != nil {
			return entity.ProviderEvent{}, err
		}
		return entity.ProviderEvent{Type: r.Type, ChainID: chainID}, nil
	default:
		return entity.ProviderEvent{}, fmt.Errorf("unsupported event type %q", r.Type)
	}
}

// parseChainID reads an EIP-1193 chain id. It is always hexadecimal; the 0x
// prefix is optional and leading zeros are accepted.
func parseChainID(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	digits := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if digits == "" {
		return 0, errors.New("chainChanged requires chainId")
	}
	id, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chainId %q: %w", raw, err)
	}
	return id, nil
}
