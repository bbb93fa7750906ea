package storage

import "context"

// Well-known keys for application state. Every component persists its state
// under one of these, so a single Storage instance holds the whole app.
const (
	KeyCart     = "cart"
	KeyOrders   = "orders"
	KeyToken    = "auth_token"
	KeyUserInfo = "userInfo"
	KeyAddress  = "deliveryAddress"
	KeyLocale   = "locale"
)

// Storage is the key-value capability backing durable client state.
// Values are JSON-serializable; Get reports whether the key existed and
// unmarshals into out when it did.
type Storage interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}
