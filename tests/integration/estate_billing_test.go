package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	estateapp "github.com/koperasi/backend/internal/application/estate"
	settingsapp "github.com/koperasi/backend/internal/application/settings"
)

// TestEstateBillingFlow exercises resident registration, monthly bill
// generation and penalty-bearing payment against a real database.
func TestEstateBillingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	// Two active households and one that moved out
	residentA, err := svc.Resident.RegisterResident(ctx, estateapp.RegisterResidentRequest{
		HouseNumber: "A-01",
		HeadOfHouse: "Siti Rahayu",
		MovedInAt:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.Resident.RegisterResident(ctx, estateapp.RegisterResidentRequest{
		HouseNumber: "A-02",
		HeadOfHouse: "Agus Wijaya",
		MovedInAt:   time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	former, err := svc.Resident.RegisterResident(ctx, estateapp.RegisterResidentRequest{
		HouseNumber: "B-01",
		HeadOfHouse: "Dewi Lestari",
		MovedInAt:   time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.Resident.MoveOutResident(ctx, former.ID, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = svc.Resident.CreateFee(ctx, estateapp.FeeRequest{
		Name:   "Iuran Keamanan",
		Amount: decimal.NewFromInt(150000),
	})
	require.NoError(t, err)

	t.Run("generate bills for active residents only", func(t *testing.T) {
		created, err := svc.FeePayment.GenerateMonthlyBills(ctx, 2025, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, created)

		// Generation is idempotent for an already billed period
		created, err = svc.FeePayment.GenerateMonthlyBills(ctx, 2025, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, created)

		year, month := 2025, 3
		page, err := svc.FeePayment.ListFeePayments(ctx, estateapp.FeePaymentListFilter{
			PeriodYear:  &year,
			PeriodMonth: &month,
			Page:        1,
			PageSize:    10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		for _, bill := range page.Items {
			assert.Equal(t, "PENDING", bill.Status)
			assert.True(t, bill.Amount.Equal(decimal.NewFromInt(150000)))
			assert.NotEqual(t, former.ID, bill.ResidentID)
		}
	})

	t.Run("on-time payment carries no penalty", func(t *testing.T) {
		bill := findBill(t, ctx, svc, residentA.ID, 2025, 3)

		paid, err := svc.FeePayment.RecordPayment(ctx, bill.ID, estateapp.RecordPaymentRequest{
			PaymentDate: bill.DueDate,
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", paid.Status)
		assert.Equal(t, 0, paid.LateDays)
		assert.True(t, paid.PenaltyAmount.IsZero())
		assert.True(t, paid.TotalAmount.Equal(bill.Amount))
	})

	t.Run("late payment accrues penalty past the grace period", func(t *testing.T) {
		// Penalty policy: 2000/day after a 3-day grace period
		_, err := svc.Settings.Upsert(ctx, settingsapp.UpsertSettingRequest{
			Key:   "estate.penalty_per_day",
			Value: "2000",
			Type:  "DECIMAL",
		})
		require.NoError(t, err)

		created, err := svc.FeePayment.GenerateMonthlyBills(ctx, 2025, 4)
		require.NoError(t, err)
		assert.Equal(t, 2, created)

		bill := findBill(t, ctx, svc, residentA.ID, 2025, 4)

		// 10 days late, grace absorbs 3, so 7 effective days
		paid, err := svc.FeePayment.RecordPayment(ctx, bill.ID, estateapp.RecordPaymentRequest{
			PaymentDate: bill.DueDate.AddDate(0, 0, 10),
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", paid.Status)
		assert.Equal(t, 10, paid.LateDays)
		assert.True(t, paid.PenaltyAmount.Equal(decimal.NewFromInt(14000)),
			"expected penalty 14000, got %s", paid.PenaltyAmount)
		assert.True(t, paid.TotalAmount.Equal(bill.Amount.Add(decimal.NewFromInt(14000))))
	})

	t.Run("cancelled bill cannot be paid", func(t *testing.T) {
		created, err := svc.FeePayment.GenerateMonthlyBills(ctx, 2025, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, created)

		bill := findBill(t, ctx, svc, residentA.ID, 2025, 5)

		cancelled, err := svc.FeePayment.CancelFeePayment(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", cancelled.Status)

		_, err = svc.FeePayment.RecordPayment(ctx, bill.ID, estateapp.RecordPaymentRequest{
			PaymentDate: time.Now(),
		})
		require.Error(t, err)
	})
}

// findBill looks up the single bill for a resident and period
func findBill(t *testing.T, ctx context.Context, svc *services, residentID uuid.UUID, year, month int) *estateapp.FeePaymentResponse {
	t.Helper()

	page, err := svc.FeePayment.ListFeePayments(ctx, estateapp.FeePaymentListFilter{
		ResidentID:  &residentID,
		PeriodYear:  &year,
		PeriodMonth: &month,
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	return page.Items[0]
}
