package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Document routing.
	ErrDocNotFound    = "E_DOC_NOT_FOUND"
	ErrModuleMismatch = "E_MODULE_MISMATCH"

	// Action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrUnknownAction = "E_UNKNOWN_ACTION"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrDocNotFound:     {},
	ErrModuleMismatch:  {},
	ErrBadRequest:      {},
	ErrUnknownAction:   {},
	ErrInvalidTarget:   {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
