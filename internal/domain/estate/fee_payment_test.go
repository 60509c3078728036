package estate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeePayment(t *testing.T) *FeePayment {
	t.Helper()
	p, err := NewFeePayment(
		uuid.New(), uuid.New(),
		2025, 1,
		decimal.NewFromInt(150_000),
		date(2025, 1, 5),
	)
	require.NoError(t, err)
	return p
}

func TestNewFeePayment(t *testing.T) {
	t.Run("creates a pending bill", func(t *testing.T) {
		p := testFeePayment(t)

		assert.Equal(t, FeePaymentStatusPending, p.Status)
		assert.Equal(t, 0, p.LateDays)
		assert.True(t, p.PenaltyAmount.IsZero())
		assert.True(t, decimal.NewFromInt(150_000).Equal(p.Total()))
	})

	t.Run("rejects an invalid period month", func(t *testing.T) {
		_, err := NewFeePayment(uuid.New(), uuid.New(), 2025, 13, decimal.NewFromInt(100), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		_, err := NewFeePayment(uuid.New(), uuid.New(), 2025, 1, decimal.NewFromInt(-100), time.Now())
		assert.Error(t, err)
	})
}

func TestFeePaymentRecordPayment(t *testing.T) {
	cfg := testPenaltyConfig()

	t.Run("settles a late bill with penalty and total", func(t *testing.T) {
		p := testFeePayment(t)

		require.NoError(t, p.RecordPayment(date(2025, 1, 20), cfg, "transfer"))

		assert.Equal(t, FeePaymentStatusPaid, p.Status)
		assert.Equal(t, 15, p.LateDays)
		assert.True(t, decimal.NewFromInt(60_000).Equal(p.PenaltyAmount), "penalty: %s", p.PenaltyAmount)
		assert.True(t, decimal.NewFromInt(210_000).Equal(p.Total()), "total: %s", p.Total())
	})

	t.Run("settles an on-time bill without penalty", func(t *testing.T) {
		p := testFeePayment(t)

		require.NoError(t, p.RecordPayment(date(2025, 1, 3), cfg, ""))

		assert.Equal(t, 0, p.LateDays)
		assert.True(t, p.PenaltyAmount.IsZero())
	})

	t.Run("settles an overdue bill", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.MarkOverdue(date(2025, 2, 1)))

		assert.NoError(t, p.RecordPayment(date(2025, 2, 1), cfg, ""))
		assert.Equal(t, FeePaymentStatusPaid, p.Status)
	})

	t.Run("fails on an already paid bill", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.RecordPayment(date(2025, 1, 5), cfg, ""))

		assert.Error(t, p.RecordPayment(date(2025, 1, 6), cfg, ""))
	})

	t.Run("fails on a cancelled bill", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.Cancel())

		assert.Error(t, p.RecordPayment(date(2025, 1, 5), cfg, ""))
	})
}

func TestFeePaymentReschedule(t *testing.T) {
	cfg := testPenaltyConfig()

	t.Run("recomputes penalty when the due date moves", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.RecordPayment(date(2025, 1, 20), cfg, ""))
		require.Equal(t, 15, p.LateDays)

		// moving the due date later shrinks the lateness
		paid := *p.PaymentDate
		require.NoError(t, p.Reschedule(date(2025, 1, 15), &paid, cfg))

		assert.Equal(t, 5, p.LateDays)
		assert.True(t, decimal.NewFromInt(10_000).Equal(p.PenaltyAmount), "penalty: %s", p.PenaltyAmount)
	})

	t.Run("is idempotent for the same dates", func(t *testing.T) {
		p := testFeePayment(t)
		paid := date(2025, 1, 20)
		require.NoError(t, p.RecordPayment(paid, cfg, ""))

		before := p.PenaltyAmount
		require.NoError(t, p.Reschedule(p.DueDate, &paid, cfg))
		require.NoError(t, p.Reschedule(p.DueDate, &paid, cfg))

		assert.True(t, before.Equal(p.PenaltyAmount))
		assert.Equal(t, 15, p.LateDays)
	})

	t.Run("clearing the payment date resets the penalty", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.RecordPayment(date(2025, 1, 20), cfg, ""))

		require.NoError(t, p.Reschedule(p.DueDate, nil, cfg))

		assert.Equal(t, 0, p.LateDays)
		assert.True(t, p.PenaltyAmount.IsZero())
	})

	t.Run("fails on a cancelled bill", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.Cancel())

		assert.Error(t, p.Reschedule(date(2025, 1, 10), nil, cfg))
	})
}

func TestFeePaymentStatusTransitions(t *testing.T) {
	t.Run("mark overdue requires a pending bill past due", func(t *testing.T) {
		p := testFeePayment(t)

		assert.Error(t, p.MarkOverdue(date(2025, 1, 5)), "not past due yet")
		require.NoError(t, p.MarkOverdue(date(2025, 1, 6)))
		assert.Equal(t, FeePaymentStatusOverdue, p.Status)
	})

	t.Run("paid bills cannot be cancelled", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.RecordPayment(date(2025, 1, 5), testPenaltyConfig(), ""))

		assert.Error(t, p.Cancel())
	})

	t.Run("cancel is not repeatable", func(t *testing.T) {
		p := testFeePayment(t)
		require.NoError(t, p.Cancel())

		assert.Error(t, p.Cancel())
	})
}
