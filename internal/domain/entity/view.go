package entity

// Theme is the page color scheme persisted under the theme key.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Modal names a dialog on the page.
type Modal string

const (
	ModalNetwork Modal = "network"
	ModalWallet  Modal = "wallet"
	ModalToken   Modal = "token"
)

// Valid reports whether m names a known modal.
func (m Modal) Valid() bool {
	return m == ModalNetwork || m == ModalWallet || m == ModalToken
}

// TokenTarget is the swap side a token selection applies to.
type TokenTarget string

const (
	TokenTargetFrom TokenTarget = "from"
	TokenTargetTo   TokenTarget = "to"
)

// Valid reports whether t is a swap side.
func (t TokenTarget) Valid() bool {
	return t == TokenTargetFrom || t == TokenTargetTo
}

// ViewEventType identifies what changed in a ViewEvent.
type ViewEventType string

const (
	ViewWalletChanged  ViewEventType = "wallet"
	ViewNetworkChanged ViewEventType = "network"
	ViewThemeChanged   ViewEventType = "theme"
	ViewModalChanged   ViewEventType = "modal"
	ViewTokenChanged   ViewEventType = "token"
	ViewNavigate       ViewEventType = "navigate"
	ViewBannerClosed   ViewEventType = "banner"
)

// ViewEvent is a render instruction sent to the page.
type ViewEvent struct {
	Type    ViewEventType `json:"type"`
	Payload any           `json:"payload"`
}

// WalletView is the payload of ViewWalletChanged.
type WalletView struct {
	Connected   bool   `json:"connected"`
	Type        string `json:"type,omitempty"`
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
	ButtonLabel string `json:"buttonLabel"`
}

// NetworkView is the payload of ViewNetworkChanged.
type NetworkView struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	IconURL    string `json:"icon"`
	ChainID    uint64 `json:"chainId"`
}

// ThemeView is the payload of ViewThemeChanged.
type ThemeView struct {
	Theme   Theme  `json:"theme"`
	LogoURL string `json:"logoUrl"`
}

// ModalView is the payload of ViewModalChanged.
type ModalView struct {
	Modal Modal `json:"modal"`
	Open  bool  `json:"open"`
}

// TokenView is the payload of ViewTokenChanged.
type TokenView struct {
	Target  TokenTarget `json:"target"`
	Symbol  string      `json:"symbol"`
	IconURL string      `json:"icon"`
}
