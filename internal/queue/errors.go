package queue

import "errors"

// ErrNotFound indicates the referenced item does not exist.
var ErrNotFound = errors.New("item not found")

// ErrReservationInvalid indicates a terminal or release write was rejected
// because the supplied token does not match the item's live reservation:
// wrong token, lease expired, or the item already reached a terminal state.
// Callers recover by discarding their assignment and requesting a new one.
var ErrReservationInvalid = errors.New("reservation invalid")
