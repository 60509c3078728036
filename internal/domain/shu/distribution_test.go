package shu

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDistribution(t *testing.T) *Distribution {
	t.Helper()
	d, err := NewDistribution(
		2025,
		decimal.NewFromInt(50_000_000),
		testSetting(t),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		"",
	)
	require.NoError(t, err)
	return d
}

func TestNewDistribution(t *testing.T) {
	t.Run("creates a draft with computed breakdown", func(t *testing.T) {
		d := testDistribution(t)

		assert.Equal(t, DistributionStatusDraft, d.Status)
		assert.True(t, decimal.NewFromInt(15_000_000).Equal(d.Breakdown.Cadangan))
		assert.True(t, decimal.NewFromInt(35_000_000).Equal(d.MemberPool()))
		assert.Len(t, d.GetDomainEvents(), 1)
	})

	t.Run("rejects setting from another fiscal year", func(t *testing.T) {
		_, err := NewDistribution(2024, decimal.NewFromInt(1000), testSetting(t), time.Now(), "")
		assert.Error(t, err)
	})

	t.Run("rejects negative total", func(t *testing.T) {
		_, err := NewDistribution(2025, decimal.NewFromInt(-1), testSetting(t), time.Now(), "")
		assert.Error(t, err)
	})

	t.Run("rejects nil setting", func(t *testing.T) {
		_, err := NewDistribution(2025, decimal.NewFromInt(1000), nil, time.Now(), "")
		assert.Error(t, err)
	})
}

func TestDistributionApprove(t *testing.T) {
	t.Run("moves draft to approved", func(t *testing.T) {
		d := testDistribution(t)
		approver := uuid.New()

		require.NoError(t, d.Approve(approver, 42))

		assert.Equal(t, DistributionStatusApproved, d.Status)
		require.NotNil(t, d.ApprovedBy)
		assert.Equal(t, approver, *d.ApprovedBy)
		assert.NotNil(t, d.ApprovedAt)
	})

	t.Run("fails with zero allocations", func(t *testing.T) {
		d := testDistribution(t)

		err := d.Approve(uuid.New(), 0)
		assert.Error(t, err)
		assert.Equal(t, DistributionStatusDraft, d.Status)
	})

	t.Run("fails when already approved", func(t *testing.T) {
		d := testDistribution(t)
		require.NoError(t, d.Approve(uuid.New(), 1))

		assert.Error(t, d.Approve(uuid.New(), 1))
	})

	t.Run("fails without an approver", func(t *testing.T) {
		d := testDistribution(t)

		assert.Error(t, d.Approve(uuid.Nil, 1))
	})
}

func TestDistributionUpdateDraft(t *testing.T) {
	t.Run("recomputes the breakdown", func(t *testing.T) {
		d := testDistribution(t)

		err := d.UpdateDraft(decimal.NewFromInt(10_000_000), testSetting(t), d.DistributionDate, "revisi")
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(3_000_000).Equal(d.Breakdown.Cadangan))
		assert.Equal(t, "revisi", d.Notes)
	})

	t.Run("fails once approved", func(t *testing.T) {
		d := testDistribution(t)
		require.NoError(t, d.Approve(uuid.New(), 1))

		err := d.UpdateDraft(decimal.NewFromInt(1000), testSetting(t), d.DistributionDate, "")
		assert.Error(t, err)
	})
}

func TestDistributionMarkPaidOut(t *testing.T) {
	t.Run("moves approved to paid out", func(t *testing.T) {
		d := testDistribution(t)
		require.NoError(t, d.Approve(uuid.New(), 3))

		require.NoError(t, d.MarkPaidOut())

		assert.Equal(t, DistributionStatusPaidOut, d.Status)
		assert.NotNil(t, d.PaidOutAt)
		assert.True(t, d.Status.IsTerminal())
	})

	t.Run("fails from draft", func(t *testing.T) {
		d := testDistribution(t)

		assert.Error(t, d.MarkPaidOut())
		assert.Equal(t, DistributionStatusDraft, d.Status)
	})

	t.Run("fails when already paid out", func(t *testing.T) {
		d := testDistribution(t)
		require.NoError(t, d.Approve(uuid.New(), 3))
		require.NoError(t, d.MarkPaidOut())

		assert.Error(t, d.MarkPaidOut())
	})
}
