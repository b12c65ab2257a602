// Package controller holds the page state that is not owned by the wallet
// services (theme, modals, token selectors) and exposes every page action.
package controller

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/app/service"
	"multichain_swap/internal/domain/entity"
)

// Logo per theme.
const (
	LogoDark  = "https://i.ibb.co/5gfKPF2S/multichain-logo-noche.png"
	LogoLight = "https://i.ibb.co/99w4fdNR/multichain-logo-dia.png"
)

// LogoFor returns the header logo for theme.
func LogoFor(theme entity.Theme) string {
	if theme == entity.ThemeLight {
		return LogoLight
	}
	return LogoDark
}

// AppState is a point-in-time copy of everything the page renders.
type AppState struct {
	Theme            entity.Theme       `json:"theme"`
	LogoURL          string             `json:"logoUrl"`
	SelectedNetwork  entity.NetworkView `json:"selectedNetwork"`
	Wallet           entity.WalletView  `json:"wallet"`
	Session          *entity.Session    `json:"session"`
	OpenModals       []entity.Modal     `json:"openModals"`
	TokenModalTarget entity.TokenTarget `json:"tokenModalTarget,omitempty"`
	FromToken        string             `json:"fromToken,omitempty"`
	ToToken          string             `json:"toToken,omitempty"`
	BannerVisible    bool               `json:"bannerVisible"`
}

// AppController is the single owner of the page state.
type AppController struct {
	connections *service.ConnectionManager
	networks    *service.NetworkSwitchCoordinator
	tokens      port.TokenProvider
	balances    *service.BalanceService
	store       *service.SessionStore
	view        port.ViewSink
	logger      port.Logger

	mu            sync.Mutex
	theme         entity.Theme
	openModals    map[entity.Modal]bool
	tokenTarget   entity.TokenTarget
	fromToken     string
	toToken       string
	bannerVisible bool
}

// New creates an AppController. balances may be nil when balance lookups are disabled.
func New(
	connections *service.ConnectionManager,
	networks *service.NetworkSwitchCoordinator,
	tokens port.TokenProvider,
	balances *service.BalanceService,
	store *service.SessionStore,
	view port.ViewSink,
	l port.Logger,
) *AppController {
	return &AppController{
		connections:   connections,
		networks:      networks,
		tokens:        tokens,
		balances:      balances,
		store:         store,
		view:          view,
		logger:        l,
		theme:         entity.ThemeDark,
		openModals:    make(map[entity.Modal]bool),
		bannerVisible: true,
	}
}

// Init restores the theme, the selected network and the wallet session.
func (c *AppController) Init() {
	theme := c.store.LoadTheme()
	c.mu.Lock()
	c.theme = theme
	c.mu.Unlock()
	c.publishTheme(theme)

	c.networks.Restore()
	c.connections.Restore()
	c.logger.Info("Page state initialized", "theme", theme, "network", c.networks.Selected())
}

// ToggleTheme flips between dark and light and persists the result.
func (c *AppController) ToggleTheme() entity.Theme {
	c.mu.Lock()
	c.theme = c.theme.Toggled()
	theme := c.theme
	c.mu.Unlock()

	c.store.SaveTheme(theme)
	c.publishTheme(theme)
	return theme
}

// ToggleModal opens m if closed and closes it if open. It reports the new state.
func (c *AppController) ToggleModal(m entity.Modal) (bool, error) {
	if !m.Valid() {
		return false, fmt.Errorf("%w: %s", entity.ErrUnknownModal, m)
	}
	c.mu.Lock()
	open := !c.openModals[m]
	c.setModalLocked(m, open)
	c.mu.Unlock()

	c.publishModal(m, open)
	return open, nil
}

// ToggleTokenModal records which swap side the token picker is for and toggles it.
func (c *AppController) ToggleTokenModal(target entity.TokenTarget) (bool, error) {
	if !target.Valid() {
		return false, fmt.Errorf("invalid token target %q", target)
	}
	c.mu.Lock()
	c.tokenTarget = target
	open := !c.openModals[entity.ModalToken]
	c.setModalLocked(entity.ModalToken, open)
	c.mu.Unlock()

	c.publishModal(entity.ModalToken, open)
	return open, nil
}

// CloseModal closes m. Closing the token picker forgets its target.
func (c *AppController) CloseModal(m entity.Modal) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %s", entity.ErrUnknownModal, m)
	}
	c.closeModal(m)
	return nil
}

func (c *AppController) closeModal(m entity.Modal) {
	c.mu.Lock()
	c.setModalLocked(m, false)
	c.mu.Unlock()
	c.publishModal(m, false)
}

// CloseAllModals closes every modal.
func (c *AppController) CloseAllModals() {
	for _, m := range []entity.Modal{entity.ModalNetwork, entity.ModalWallet, entity.ModalToken} {
		c.closeModal(m)
	}
}

func (c *AppController) setModalLocked(m entity.Modal, open bool) {
	if open {
		c.openModals[m] = true
		return
	}
	delete(c.openModals, m)
	if m == entity.ModalToken {
		c.tokenTarget = ""
	}
}

// CloseBanner hides the top banner for this process lifetime.
func (c *AppController) CloseBanner() {
	c.mu.Lock()
	c.bannerVisible = false
	c.mu.Unlock()
	c.view.Publish(entity.ViewEvent{Type: entity.ViewBannerClosed})
}

// SelectToken assigns symbol to the side the token picker was opened for and
// closes the picker. Without an open picker only the picker is closed.
func (c *AppController) SelectToken(symbol string) error {
	token, ok := c.tokens.GetToken(symbol)
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrUnknownToken, symbol)
	}

	c.mu.Lock()
	target := c.tokenTarget
	switch target {
	case entity.TokenTargetFrom:
		c.fromToken = token.Symbol
	case entity.TokenTargetTo:
		c.toToken = token.Symbol
	}
	c.setModalLocked(entity.ModalToken, false)
	c.mu.Unlock()

	c.logger.Info("Token selected", "token", token.Symbol, "target", target)
	c.publishModal(entity.ModalToken, false)
	if target != "" {
		c.view.Publish(entity.ViewEvent{Type: entity.ViewTokenChanged, Payload: entity.TokenView{
			Target:  target,
			Symbol:  token.Symbol,
			IconURL: token.IconURL,
		}})
	}
	return nil
}

// SelectNetwork selects networkID, closes the network modal and asks a connected
// wallet to follow.
func (c *AppController) SelectNetwork(ctx context.Context, networkID string) error {
	if _, ok := c.networks.Lookup(networkID); ok {
		c.closeModal(entity.ModalNetwork)
	}
	return c.networks.Select(ctx, networkID)
}

// ConnectWallet connects walletID and closes the wallet modal on success.
func (c *AppController) ConnectWallet(ctx context.Context, walletID string) service.ConnectOutcome {
	outcome := c.connections.Connect(ctx, walletID)
	if outcome == service.ConnectConnected {
		c.closeModal(entity.ModalWallet)
	}
	return outcome
}

// DisconnectWallet drops the session.
func (c *AppController) DisconnectWallet() {
	c.connections.Disconnect()
}

// Swap is a placeholder: swaps are not executed.
func (c *AppController) Swap() {
	c.mu.Lock()
	from, to := c.fromToken, c.toToken
	c.mu.Unlock()
	c.logger.Info("Swapping tokens...", "from", from, "to", to)
}

// Balance returns the native balance of the connected wallet on the selected network.
func (c *AppController) Balance(ctx context.Context) (entity.Balance, error) {
	session := c.connections.Session()
	if session == nil {
		return entity.Balance{}, entity.ErrNotConnected
	}
	if c.balances == nil {
		return entity.Balance{}, fmt.Errorf("balance lookups disabled")
	}
	return c.balances.GetNativeBalance(ctx, session.Address, c.networks.Selected())
}

// Snapshot returns a copy of the current page state.
func (c *AppController) Snapshot() AppState {
	session := c.connections.Session()
	network := c.networks.SelectedDefinition()

	c.mu.Lock()
	defer c.mu.Unlock()

	modals := make([]entity.Modal, 0, len(c.openModals))
	for m := range c.openModals {
		modals = append(modals, m)
	}
	sort.Slice(modals, func(i, j int) bool { return modals[i] < modals[j] })

	return AppState{
		Theme:            c.theme,
		LogoURL:          LogoFor(c.theme),
		SelectedNetwork:  service.NetworkViewOf(network),
		Wallet:           service.WalletViewOf(session),
		Session:          session,
		OpenModals:       modals,
		TokenModalTarget: c.tokenTarget,
		FromToken:        c.fromToken,
		ToToken:          c.toToken,
		BannerVisible:    c.bannerVisible,
	}
}

func (c *AppController) publishTheme(theme entity.Theme) {
	c.view.Publish(entity.ViewEvent{Type: entity.ViewThemeChanged, Payload: entity.ThemeView{Theme: theme, LogoURL: LogoFor(theme)}})
}

func (c *AppController) publishModal(m entity.Modal, open bool) {
	c.view.Publish(entity.ViewEvent{Type: entity.ViewModalChanged, Payload: entity.ModalView{Modal: m, Open: open}})
}
