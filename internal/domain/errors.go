package domain

import (
	"errors"
)

// ValidationError is a recoverable bid rejection. Error returns the
// user-facing message unchanged.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrItemNotFound = &ValidationError{
		Code:    "item_not_found",
		Message: "Item not found.",
	}
	ErrBelowStartingPrice = &ValidationError{
		Code:    "below_starting_price",
		Message: "Bid must be higher than the starting price.",
	}
	ErrBidNotHigher = &ValidationError{
		Code:    "bid_not_higher",
		Message: "Bid must be higher than the current highest bid.",
	}
)

// BidMessage maps the result of a bid attempt to the text shown to the bidder.
func BidMessage(err error) string {
	if err == nil {
		return MsgBidPlaced
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
