package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trongate/trongate/internal/config"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/repository"
)

func newStoreFixture(t *testing.T) (*TenantStore, *memTenantRepo) {
	t.Helper()
	repo := newMemTenantRepo()
	cfg := &config.Config{
		Funding: config.FundingConfig{AutoFundSun: 10, MinBalanceSun: 2},
	}
	return NewTenantStore(repo, NewEnvSecretResolver(), cfg), repo
}

func TestResolveMatchesWWWVariant(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, testTenant()))

	plain, err := store.Resolve(ctx, "a.com")
	require.NoError(t, err)
	www, err := store.Resolve(ctx, "www.a.com")
	require.NoError(t, err)
	assert.Equal(t, plain.Domain, www.Domain)
}

func TestResolveUnknownDomain(t *testing.T) {
	store, _ := newStoreFixture(t)
	_, err := store.Resolve(context.Background(), "nobody.com")
	assert.ErrorIs(t, err, repository.ErrTenantNotFound)
}

func TestSecretSlotOverridesEmbeddedSecret(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, testTenant()))

	t.Setenv("TRONGATE_SECRET_A_COM", "slot-secret")
	tenant, err := store.Resolve(ctx, "a.com")
	require.NoError(t, err)
	assert.Equal(t, "slot-secret", tenant.PrivateKey)
}

func TestEmbeddedSecretUsedWhenSlotEmpty(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, testTenant()))

	tenant, err := store.Resolve(ctx, "a.com")
	require.NoError(t, err)
	assert.Equal(t, "cafe01", tenant.PrivateKey)
}

func TestUpsertPreservesEmbeddedSecret(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, testTenant()))

	// Admin-style update without a secret must not wipe the stored one.
	update := testTenant()
	update.PrivateKey = ""
	update.AutoFundAmount = decimal.NewFromInt(20)
	require.NoError(t, store.Upsert(ctx, update))

	tenant, err := store.Resolve(ctx, "a.com")
	require.NoError(t, err)
	assert.Equal(t, "cafe01", tenant.PrivateKey)
	assert.True(t, tenant.AutoFundAmount.Equal(decimal.NewFromInt(20)))
}

func TestUpsertNormalizesDomainAndAppliesDefaults(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()

	tenant := &model.Tenant{Domain: "WWW.B.Com", WalletAddress: "TWallet", Enabled: true}
	require.NoError(t, store.Upsert(ctx, tenant))

	got, err := store.Resolve(ctx, "b.com")
	require.NoError(t, err)
	assert.Equal(t, "b.com", got.Domain)
	assert.True(t, got.AutoFundAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.MinBalanceThreshold.Equal(decimal.NewFromInt(2)))
}

func TestListStripsSecrets(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, testTenant()))

	tenants, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Empty(t, tenants[0].PrivateKey)
}

func TestLookupDistinguishesDisabledFromAbsent(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()
	tenant := testTenant()
	tenant.Enabled = false
	require.NoError(t, store.Upsert(ctx, tenant))

	authorized, enabled, err := store.Lookup(ctx, "a.com")
	require.NoError(t, err)
	assert.True(t, authorized)
	assert.False(t, enabled)

	authorized, enabled, err = store.Lookup(ctx, "missing.com")
	require.NoError(t, err)
	assert.False(t, authorized)
	assert.False(t, enabled)
}

func TestDomainsExcludesDisabled(t *testing.T) {
	store, _ := newStoreFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, testTenant()))
	disabled := testTenant()
	disabled.Domain = "off.com"
	disabled.Enabled = false
	require.NoError(t, store.Upsert(ctx, disabled))

	domains, err := store.Domains(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.com"}, domains)
}
