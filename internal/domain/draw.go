// internal/domain/draw.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Winner is one ranked winning ticket of a draw.
type Winner struct {
	Rank         int    `json:"rank"`
	TicketNumber string `json:"ticket_number"`
	AccountID    int64  `json:"account_id"`
	PrizeAmount  int64  `json:"prize_amount"`
}

// Winners is the rank-ordered winner list of a draw, stored as JSONB.
type Winners []Winner

// Value implements driver.Valuer for JSONB storage.
func (ws Winners) Value() (driver.Value, error) {
	return json.Marshal(ws)
}

// Scan implements sql.Scanner for JSONB storage.
func (ws *Winners) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, ws)
	case string:
		return json.Unmarshal([]byte(v), ws)
	case nil:
		*ws = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Winners", src)
	}
}

// DrawResult is the immutable outcome of a lottery draw. A lottery has at
// most one; the unique lottery_id constraint enforces this at commit time.
type DrawResult struct {
	ID        int64     `db:"id" json:"id"`
	LotteryID int64     `db:"lottery_id" json:"lottery_id"`
	Winners   Winners   `db:"winners" json:"winners"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewDrawResult creates a draw result for a lottery.
func NewDrawResult(lotteryID int64, winners Winners) *DrawResult {
	return &DrawResult{
		LotteryID: lotteryID,
		Winners:   winners,
		CreatedAt: time.Now().UTC(),
	}
}
