package viewsink

import (
	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
)

// NavigateView is the payload of a navigate event.
type NavigateView struct {
	URL    string `json:"url"`
	Target string `json:"target"`
}

// Navigator asks the page to open a URL in a new tab.
type Navigator struct {
	sink   port.ViewSink
	logger port.Logger
}

// NewNavigator creates a Navigator publishing to sink.
func NewNavigator(sink port.ViewSink, l port.Logger) *Navigator {
	return &Navigator{sink: sink, logger: l}
}

var _ port.Navigator = (*Navigator)(nil)

// Open publishes a navigate event for url.
func (n *Navigator) Open(url string) {
	n.logger.Info("Opening external page", "url", url)
	n.sink.Publish(entity.ViewEvent{Type: entity.ViewNavigate, Payload: NavigateView{URL: url, Target: "_blank"}})
}
