package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memberapp "github.com/koperasi/backend/internal/application/member"
	shuapp "github.com/koperasi/backend/internal/application/shu"
	"github.com/koperasi/backend/internal/domain/shared"
)

// TestShuDistributionFlow runs a full SHU cycle against a real database:
// percentage setting, distribution draft, allocation calculation, approval
// and batch payout into the members' savings accounts.
func TestShuDistributionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	// The fiscal year window of the deposit volume sum is [Jan 1, Jan 1),
	// so deposits posted during the test only count for the current year.
	fiscalYear := time.Now().UTC().Year()

	// Two members with different balances and deposit volumes. Rina keeps
	// everything deposited; Joko withdraws half, which lowers his balance
	// but not his deposit volume.
	rina := registerShuMember(t, ctx, svc, "KOP-0101", "Rina Hartono")
	joko := registerShuMember(t, ctx, svc, "KOP-0102", "Joko Prasetyo")

	deposit(t, ctx, svc, rina, decimal.NewFromInt(3_000_000))
	deposit(t, ctx, svc, joko, decimal.NewFromInt(2_000_000))

	_, err := svc.Savings.Withdraw(ctx, memberapp.PostTransactionRequest{
		AccountID: sukarelaAccount(t, ctx, svc, joko).ID,
		Amount:    decimal.NewFromInt(1_000_000),
	})
	require.NoError(t, err)

	// Balances: Rina 3,000,000, Joko 1,000,000. Volumes: 3,000,000 and
	// 2,000,000. Total SHU 10,000,000 with a 50% member pool split 40/60
	// between jasa modal and jasa usaha.
	setting, err := svc.ShuSetting.CreateSetting(ctx, shuapp.CreateSettingRequest{
		Name:       "RAT split",
		FiscalYear: fiscalYear,
		Percentages: shuapp.PercentagesPayload{
			Cadangan:   decimal.NewFromInt(30),
			Anggota:    decimal.NewFromInt(50),
			Pengurus:   decimal.NewFromInt(10),
			Karyawan:   decimal.NewFromInt(5),
			DanaSosial: decimal.NewFromInt(5),
			JasaModal:  decimal.NewFromInt(40),
			JasaUsaha:  decimal.NewFromInt(60),
		},
	})
	require.NoError(t, err)

	_, err = svc.ShuSetting.ActivateSetting(ctx, setting.ID)
	require.NoError(t, err)

	dist, err := svc.ShuDist.CreateDistribution(ctx, shuapp.CreateDistributionRequest{
		FiscalYear:       fiscalYear,
		TotalSHUAmount:   decimal.NewFromInt(10_000_000),
		SettingID:        setting.ID,
		DistributionDate: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", dist.Status)
	assert.True(t, dist.Breakdown.Cadangan.Equal(decimal.NewFromInt(3_000_000)))
	assert.True(t, dist.Breakdown.JasaModal.Equal(decimal.NewFromInt(2_000_000)))
	assert.True(t, dist.Breakdown.JasaUsaha.Equal(decimal.NewFromInt(3_000_000)))

	t.Run("second distribution for the year is rejected", func(t *testing.T) {
		_, err := svc.ShuDist.CreateDistribution(ctx, shuapp.CreateDistributionRequest{
			FiscalYear:       fiscalYear,
			TotalSHUAmount:   decimal.NewFromInt(1),
			SettingID:        setting.ID,
			DistributionDate: time.Now().UTC(),
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DISTRIBUTION_EXISTS", derr.Code)
	})

	t.Run("allocations are proportional to balance and deposit volume", func(t *testing.T) {
		calc, err := svc.ShuDist.CalculateAllocations(ctx, dist.ID)
		require.NoError(t, err)
		require.Equal(t, 2, calc.MemberCount)
		assert.True(t, calc.TotalAmount.Equal(decimal.NewFromInt(5_000_000)),
			"member pool should be fully allocated, got %s", calc.TotalAmount)

		byMember := make(map[uuid.UUID]shuapp.AllocationResponse, len(calc.Allocations))
		for _, a := range calc.Allocations {
			byMember[a.MemberID] = a
		}

		// Rina holds 3/4 of the balance and 3/5 of the volume
		rinaAlloc := byMember[rina]
		assert.True(t, rinaAlloc.JasaModalAmount.Equal(decimal.NewFromInt(1_500_000)))
		assert.True(t, rinaAlloc.JasaUsahaAmount.Equal(decimal.NewFromInt(1_800_000)))
		assert.True(t, rinaAlloc.AmountAllocated.Equal(decimal.NewFromInt(3_300_000)))

		jokoAlloc := byMember[joko]
		assert.True(t, jokoAlloc.JasaModalAmount.Equal(decimal.NewFromInt(500_000)))
		assert.True(t, jokoAlloc.JasaUsahaAmount.Equal(decimal.NewFromInt(1_200_000)))
		assert.False(t, jokoAlloc.IsPaidOut)
	})

	t.Run("payout requires approval", func(t *testing.T) {
		_, err := svc.ShuDist.BatchPayout(ctx, dist.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	approver := uuid.New()
	approved, err := svc.ShuDist.Approve(ctx, dist.ID, approver)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, approver, *approved.ApprovedBy)

	t.Run("batch payout credits savings and closes the distribution", func(t *testing.T) {
		rinaBefore := memberBalance(t, ctx, svc, rina)

		result, err := svc.ShuDist.BatchPayout(ctx, dist.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.PaidCount)
		assert.Empty(t, result.Errors)
		assert.True(t, result.PaidAmount.Equal(decimal.NewFromInt(5_000_000)))
		assert.Equal(t, "PAID_OUT", result.DistributionStatus)

		rinaAfter := memberBalance(t, ctx, svc, rina)
		assert.True(t, rinaAfter.Sub(rinaBefore).Equal(decimal.NewFromInt(3_300_000)))

		allocs, err := svc.ShuDist.ListAllocations(ctx, dist.ID)
		require.NoError(t, err)
		for _, a := range allocs {
			assert.True(t, a.IsPaidOut)
			assert.NotNil(t, a.PayoutTransactionID)
		}

		shuType := "SHU_DISTRIBUTION"
		ledger, err := svc.Savings.ListTransactions(ctx, memberapp.TransactionListFilter{
			MemberID: &rina,
			Type:     &shuType,
			Page:     1,
			PageSize: 10,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), ledger.Total)
		assert.Equal(t, dist.ID.String(), ledger.Items[0].Reference)
	})

	t.Run("repeat payout finds nothing left to pay", func(t *testing.T) {
		_, err := svc.ShuDist.BatchPayout(ctx, dist.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})
}

func registerShuMember(t *testing.T, ctx context.Context, svc *services, number, name string) uuid.UUID {
	t.Helper()
	resp, err := svc.Member.RegisterMember(ctx, memberapp.RegisterMemberRequest{
		MemberNumber: number,
		FullName:     name,
		JoinedAt:     time.Now().UTC().AddDate(-1, 0, 0),
	})
	require.NoError(t, err)
	return resp.ID
}

func sukarelaAccount(t *testing.T, ctx context.Context, svc *services, memberID uuid.UUID) memberapp.SavingsAccountResponse {
	t.Helper()
	detail, err := svc.Member.GetMember(ctx, memberID)
	require.NoError(t, err)
	for _, acc := range detail.SavingsAccounts {
		if acc.Type == "SUKARELA" {
			return acc
		}
	}
	t.Fatalf("member %s has no voluntary savings account", memberID)
	return memberapp.SavingsAccountResponse{}
}

func deposit(t *testing.T, ctx context.Context, svc *services, memberID uuid.UUID, amount decimal.Decimal) {
	t.Helper()
	_, err := svc.Savings.Deposit(ctx, memberapp.PostTransactionRequest{
		AccountID: sukarelaAccount(t, ctx, svc, memberID).ID,
		Amount:    amount,
	})
	require.NoError(t, err)
}

func memberBalance(t *testing.T, ctx context.Context, svc *services, memberID uuid.UUID) decimal.Decimal {
	t.Helper()
	detail, err := svc.Member.GetMember(ctx, memberID)
	require.NoError(t, err)
	return detail.TotalBalance
}
