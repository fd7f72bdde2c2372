package registry

import "errors"

// Configuration errors abort the triggering operation and surface to the
// caller; they are never handled by substituting defaults.
var (
	ErrUnknownPool       = errors.New("registry: unknown pool")
	ErrPoolExists        = errors.New("registry: pool already registered")
	ErrNotConfigured     = errors.New("registry: pool not configured")
	ErrAlreadyConfigured = errors.New("registry: pool already configured")
	ErrPairMismatch      = errors.New("registry: primary and reference pools do not share an asset pair")
	ErrKeyMismatch       = errors.New("registry: primary key does not match pool id")
)

// Authorization errors.
var (
	ErrNotCreator  = errors.New("registry: caller is not the pool creator")
	ErrNotOwner    = errors.New("registry: caller is not the owner")
	ErrZeroAddress = errors.New("registry: zero address")
)

var (
	ErrFeeOutOfBounds        = errors.New("registry: fee out of allowed bounds")
	ErrInsufficientInventory = errors.New("registry: inventory would go negative")
)
