package integration

import (
	"context"
	"sync"
	"time"

	estateapp "github.com/koperasi/backend/internal/application/estate"
	memberapp "github.com/koperasi/backend/internal/application/member"
	settingsapp "github.com/koperasi/backend/internal/application/settings"
	shuapp "github.com/koperasi/backend/internal/application/shu"
	"github.com/koperasi/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// memoryCache is a map-backed settings cache for tests
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// services bundles the application services wired against a test database
type services struct {
	Member     *memberapp.MemberService
	Savings    *memberapp.SavingsService
	ShuSetting *shuapp.SettingService
	ShuDist    *shuapp.DistributionService
	Settings   *settingsapp.Service
	Resident   *estateapp.ResidentService
	FeePayment *estateapp.FeePaymentService
}

// newServices wires real repositories and services against the test database
func newServices(tdb *TestDB) *services {
	memberRepo := persistence.NewGormMemberRepository(tdb.DB)
	accountRepo := persistence.NewGormSavingsAccountRepository(tdb.DB)
	transactionRepo := persistence.NewGormSavingsTransactionRepository(tdb.DB)
	shuSettingRepo := persistence.NewGormPercentageSettingRepository(tdb.DB)
	distributionRepo := persistence.NewGormDistributionRepository(tdb.DB)
	allocationRepo := persistence.NewGormMemberAllocationRepository(tdb.DB)
	residentRepo := persistence.NewGormResidentRepository(tdb.DB)
	feeRepo := persistence.NewGormFeeRepository(tdb.DB)
	feePaymentRepo := persistence.NewGormFeePaymentRepository(tdb.DB)
	settingRepo := persistence.NewGormSettingRepository(tdb.DB)
	transactor := persistence.NewGormTransactor(tdb.DB)

	settingsService := settingsapp.NewService(settingRepo, newMemoryCache())

	return &services{
		Member:     memberapp.NewMemberService(memberRepo, accountRepo, transactor),
		Savings:    memberapp.NewSavingsService(accountRepo, transactionRepo, transactor),
		ShuSetting: shuapp.NewSettingService(shuSettingRepo, distributionRepo),
		ShuDist: shuapp.NewDistributionService(
			distributionRepo,
			shuSettingRepo,
			allocationRepo,
			memberRepo,
			accountRepo,
			transactionRepo,
			transactor,
			zap.NewNop(),
		),
		Settings: settingsService,
		Resident: estateapp.NewResidentService(residentRepo, feeRepo),
		FeePayment: estateapp.NewFeePaymentService(
			feePaymentRepo,
			residentRepo,
			feeRepo,
			settingsService,
			transactor,
			zap.NewNop(),
		),
	}
}
