// internal/domain/lottery.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Phase is the lifecycle phase of a lottery. Apart from DRAFT (before
// publication) and the terminal RESULT_ANNOUNCED, the phase is a pure
// function of the clock and sales; see Lottery.PhaseAt.
type Phase string

const (
	PhaseDraft           Phase = "DRAFT"
	PhaseUpcoming        Phase = "UPCOMING"
	PhaseActive          Phase = "ACTIVE"
	PhaseEnded           Phase = "ENDED"
	PhaseResultAnnounced Phase = "RESULT_ANNOUNCED"
)

// minTicketNumberWidth is the minimum zero-padded width of the sequence part
// of a ticket number.
const minTicketNumberWidth = 4

// WinnerBand is one prize tier: every rank in [FromRank, ToRank] wins
// PrizeAmount (minor units).
type WinnerBand struct {
	FromRank    int   `json:"from_rank"`
	ToRank      int   `json:"to_rank"`
	PrizeAmount int64 `json:"prize_amount"`
}

// Size returns the number of ranks covered by the band.
func (b WinnerBand) Size() int {
	return b.ToRank - b.FromRank + 1
}

// WinnerBands is the ordered prize structure of a lottery. It is stored as a
// JSONB column.
type WinnerBands []WinnerBand

// Validate checks that the bands form contiguous-or-increasing,
// non-overlapping rank ranges starting at 1 or later, each with a positive
// prize.
func (bs WinnerBands) Validate() error {
	if len(bs) == 0 {
		return fmt.Errorf("winner structure must contain at least one band")
	}
	prevTo := 0
	for i, b := range bs {
		if b.FromRank <= prevTo {
			return fmt.Errorf("band %d: fromRank %d overlaps or regresses previous ranks", i+1, b.FromRank)
		}
		if b.ToRank < b.FromRank {
			return fmt.Errorf("band %d: toRank %d is below fromRank %d", i+1, b.ToRank, b.FromRank)
		}
		if b.PrizeAmount <= 0 {
			return fmt.Errorf("band %d: prize amount must be positive", i+1)
		}
		prevTo = b.ToRank
	}
	return nil
}

// Value implements driver.Valuer for JSONB storage.
func (bs WinnerBands) Value() (driver.Value, error) {
	return json.Marshal(bs)
}

// Scan implements sql.Scanner for JSONB storage.
func (bs *WinnerBands) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, bs)
	case string:
		return json.Unmarshal([]byte(v), bs)
	case nil:
		*bs = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into WinnerBands", src)
	}
}

// Lottery is a time-boxed sale of uniquely numbered tickets with a
// configured prize structure.
type Lottery struct {
	ID                int64       `db:"id" json:"id"`
	Name              string      `db:"name" json:"name"`
	Prefix            string      `db:"prefix" json:"prefix"`
	TicketPrice       int64       `db:"ticket_price" json:"ticket_price"`
	MaxTickets        int         `db:"max_tickets" json:"max_tickets"`
	MaxTicketsPerUser int         `db:"max_tickets_per_user" json:"max_tickets_per_user"`
	WinnerStructure   WinnerBands `db:"winner_structure" json:"winner_structure"`
	StartAt           time.Time   `db:"start_at" json:"start_at"`
	EndAt             time.Time   `db:"end_at" json:"end_at"`
	DrawAt            time.Time   `db:"draw_at" json:"draw_at"`
	TicketsSold       int         `db:"tickets_sold" json:"tickets_sold"`
	Phase             Phase       `db:"phase" json:"phase"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// PhaseAt derives the lifecycle phase at the given instant. DRAFT and the
// terminal RESULT_ANNOUNCED are sticky; every other phase is recomputed from
// scratch so repeated evaluation is idempotent. A sellout ends the lottery
// early regardless of EndAt.
func (l *Lottery) PhaseAt(now time.Time) Phase {
	switch l.Phase {
	case PhaseDraft:
		return PhaseDraft
	case PhaseResultAnnounced:
		return PhaseResultAnnounced
	}
	if l.TicketsSold >= l.MaxTickets || !now.Before(l.EndAt) {
		return PhaseEnded
	}
	if now.Before(l.StartAt) {
		return PhaseUpcoming
	}
	return PhaseActive
}

// DrawDue reports whether the lottery has ended and reached its draw time.
func (l *Lottery) DrawDue(now time.Time) bool {
	return l.PhaseAt(now) == PhaseEnded && !now.Before(l.DrawAt)
}

// ticketNumberWidth is the zero-padded width of the sequence part, widened
// beyond the minimum when MaxTickets needs more digits.
func (l *Lottery) ticketNumberWidth() int {
	width := len(strconv.Itoa(l.MaxTickets))
	if width < minTicketNumberWidth {
		width = minTicketNumberWidth
	}
	return width
}

// TicketNumber formats the n-th ticket (1-based) as
// <prefix>-<zero-padded sequence>.
func (l *Lottery) TicketNumber(n int) string {
	return fmt.Sprintf("%s-%0*d", l.Prefix, l.ticketNumberWidth(), n)
}

// ValidTicketNumber reports whether s names a ticket inside this lottery's
// number space.
func (l *Lottery) ValidTicketNumber(s string) bool {
	rest, ok := strings.CutPrefix(s, l.Prefix+"-")
	if !ok || len(rest) != l.ticketNumberWidth() {
		return false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return false
	}
	return n >= 1 && n <= l.MaxTickets && l.TicketNumber(n) == s
}

// NewLottery creates a lottery in the DRAFT phase.
func NewLottery(name, prefix string, ticketPrice int64, maxTickets, maxPerUser int, bands WinnerBands, startAt, endAt, drawAt time.Time) *Lottery {
	now := time.Now().UTC()
	return &Lottery{
		Name:              name,
		Prefix:            prefix,
		TicketPrice:       ticketPrice,
		MaxTickets:        maxTickets,
		MaxTicketsPerUser: maxPerUser,
		WinnerStructure:   bands,
		StartAt:           startAt,
		EndAt:             endAt,
		DrawAt:            drawAt,
		Phase:             PhaseDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
