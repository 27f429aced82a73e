// internal/domain/allocation.go
package domain

import (
	"time"

	"github.com/lib/pq"
)

// TicketAllocation holds every ticket one account owns in one lottery.
// There is at most one allocation per (lottery, account) pair; subsequent
// purchases append to it. Ticket numbers are unique across all allocations
// of a lottery.
type TicketAllocation struct {
	ID            int64          `db:"id" json:"id"`
	LotteryID     int64          `db:"lottery_id" json:"lottery_id"`
	AccountID     int64          `db:"account_id" json:"account_id"`
	TicketNumbers pq.StringArray `db:"ticket_numbers" json:"ticket_numbers"`
	Quantity      int            `db:"quantity" json:"quantity"`
	TotalPaid     int64          `db:"total_paid" json:"total_paid"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// NewTicketAllocation creates the first allocation of an account in a
// lottery.
func NewTicketAllocation(lotteryID, accountID int64, numbers []string, totalPaid int64) *TicketAllocation {
	now := time.Now().UTC()
	return &TicketAllocation{
		LotteryID:     lotteryID,
		AccountID:     accountID,
		TicketNumbers: numbers,
		Quantity:      len(numbers),
		TotalPaid:     totalPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
