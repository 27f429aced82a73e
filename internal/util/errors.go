// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common application-specific errors.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input provided")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrNotEligibleForWallet = errors.New("account is not eligible for a wallet")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrAccountNotFound      = errors.New("account not found")
	ErrLotteryNotFound      = errors.New("lottery not found")
	ErrLotteryNotActive     = errors.New("lottery is not open for ticket sales")
	ErrTicketUnavailable    = errors.New("ticket numbers unavailable")
	ErrQuantityMismatch     = errors.New("ticket number count does not match quantity")
	ErrPerUserLimitExceeded = errors.New("per-user ticket limit exceeded")
	ErrAlreadyDrawn         = errors.New("lottery has already been drawn")
	ErrDrawNotReady         = errors.New("lottery is not ready to be drawn")
	ErrNoTicketsSold        = errors.New("no tickets sold")
	ErrDuplicateEntry       = errors.New("duplicate entry")
	ErrConflict             = errors.New("transactional conflict, safe to retry")
)

// TicketUnavailableError reports the specific ticket numbers that could not
// be sold. It unwraps to ErrTicketUnavailable.
type TicketUnavailableError struct {
	Numbers []string
}

func (e *TicketUnavailableError) Error() string {
	return fmt.Sprintf("ticket numbers unavailable: %s", strings.Join(e.Numbers, ", "))
}

func (e *TicketUnavailableError) Unwrap() error {
	return ErrTicketUnavailable
}

// IsError reports whether err wraps the given target error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
