package types

import "net/http"

// Tracking receives storefront events. Implementations publish
// asynchronously, callers always nil-check before use.
type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackAddToCart(sessionId int, itemId ItemId, quantity uint)
	TrackPurchase(sessionId int, orderId string, total int)
	TrackCatalogQuery(sessionId int, hits int)
	Close() error
}
