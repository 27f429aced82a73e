package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"golotto/internal/domain"
	"golotto/internal/util"
)

func TestCreateAllocation(t *testing.T) {
	ctx := context.Background()
	repo := NewAllocationRepository()
	db, mock := newMockDB(t)

	alloc := domain.NewTicketAllocation(3, 7, []string{"SUMMER-0001", "SUMMER-0002"}, 1000)

	mock.ExpectQuery(`INSERT INTO ticket_allocations`).
		WithArgs(int64(3), int64(7), alloc.TicketNumbers, 2, int64(1000), alloc.CreatedAt, alloc.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	err := repo.CreateAllocation(ctx, db, alloc)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), alloc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllocationNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAllocationRepository()
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM ticket_allocations WHERE lottery_id = \$1 AND account_id = \$2`).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	alloc, err := repo.GetAllocation(ctx, db, 3, 7)

	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.Nil(t, alloc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllocationsByLottery(t *testing.T) {
	ctx := context.Background()
	repo := NewAllocationRepository()
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "lottery_id", "account_id", "ticket_numbers", "quantity", "total_paid", "created_at", "updated_at"}).
		AddRow(1, 3, 7, `{SUMMER-0001,SUMMER-0002}`, 2, int64(1000), now, now).
		AddRow(2, 3, 8, `{SUMMER-0003}`, 1, int64(500), now, now)
	mock.ExpectQuery(`FROM ticket_allocations WHERE lottery_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	allocations, err := repo.ListAllocationsByLottery(ctx, db, 3)

	assert.NoError(t, err)
	assert.Len(t, allocations, 2)
	assert.Equal(t, []string{"SUMMER-0001", "SUMMER-0002"}, []string(allocations[0].TicketNumbers))
	assert.Equal(t, int64(8), allocations[1].AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendTickets(t *testing.T) {
	ctx := context.Background()
	repo := NewAllocationRepository()
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE ticket_allocations`)).
		WithArgs(sqlmock.AnyArg(), 1, int64(500), sqlmock.AnyArg(), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AppendTickets(ctx, db, 11, []string{"SUMMER-0004"}, 500)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
