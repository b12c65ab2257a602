package port

import "multichain_swap/internal/domain/entity"

// ViewSink receives render instructions for the page.
type ViewSink interface {
	Publish(event entity.ViewEvent)
}
