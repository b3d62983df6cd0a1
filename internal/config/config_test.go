package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	queue "github.com/babylonlabs-io/staking-queue-client/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashbonus/crash-staking-ledger/internal/rewards"
)

const reporter = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func validConfig() *Config {
	return &Config{
		Db: DbConfig{
			Username: "test",
			Password: "test",
			Address:  "mongodb://localhost:27017",
			DbName:   "test",
		},
		Metrics: MetricsConfig{
			Host: "0.0.0.0",
			Port: 2112,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Staking: StakingConfig{
			HalvingStart:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			PrivilegedReporters: reporter,
		},
	}
}

func TestConfig_OptionalQueue(t *testing.T) {
	cfg := validConfig()
	cfg.Queue = &queue.QueueConfig{
		QueueUser:              "test",
		QueuePassword:          "test",
		Url:                    "localhost:5672",
		QueueProcessingTimeout: 5 * time.Second,
		MsgMaxRetryAttempts:    10,
		ReQueueDelayTime:       300 * time.Second,
		QueueType:              "quorum",
	}

	err := cfg.Validate()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Queue)

	cfg.Queue = nil
	err = cfg.Validate()
	require.NoError(t, err)
	assert.Nil(t, cfg.Queue)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultProfile, cfg.Staking.Profile)
	assert.Equal(t, defaultRateCacheSize, cfg.Staking.RateCacheSize)
	assert.Equal(t, defaultStatsPollingInterval, cfg.Poller.StatsPollingInterval)
	assert.Equal(t, defaultServerReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestConfig_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"missing db name", func(cfg *Config) { cfg.Db.DbName = "" }},
		{"bad db scheme", func(cfg *Config) { cfg.Db.Address = "postgres://localhost" }},
		{"bad metrics host", func(cfg *Config) { cfg.Metrics.Host = "localhost:1" }},
		{"bad server port", func(cfg *Config) { cfg.Server.Port = 0 }},
		{"unknown profile", func(cfg *Config) { cfg.Staking.Profile = "turbo" }},
		{"unknown bonus weights", func(cfg *Config) { cfg.Staking.BonusWeightsVersion = "v9" }},
		{"missing halving start", func(cfg *Config) { cfg.Staking.HalvingStart = time.Time{} }},
		{"bad reporter", func(cfg *Config) { cfg.Staking.PrivilegedReporters = "0x12" }},
		{"bad balance", func(cfg *Config) { cfg.Staking.InitialBalances = map[string]string{reporter: "ten"} }},
		{"negative balance", func(cfg *Config) { cfg.Staking.InitialBalances = map[string]string{reporter: "-1"} }},
		{"bad log level", func(cfg *Config) { cfg.LogLevel = "loud" }},
		{"restore with initial balances", func(cfg *Config) {
			cfg.Staking.RestoreFromDb = true
			cfg.Staking.InitialBalances = map[string]string{reporter: "10"}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			c.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestProfiles(t *testing.T) {
	for _, name := range ProfileNames() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Profiles[name].Validate())
		})
	}

	assert.Equal(t, []string{DefaultProfile, LegacyRestartProfile}, ProfileNames())
	assert.Equal(t, rewards.CompoundRunningBalance, Profiles[DefaultProfile].Compounding)
	assert.Equal(t, time.Hour, Profiles[DefaultProfile].GracePeriod)
	assert.Equal(t, rewards.CompoundRestartPrincipal, Profiles[LegacyRestartProfile].Compounding)
	assert.Zero(t, Profiles[LegacyRestartProfile].GracePeriod)

	t.Run("max apy ceiling", func(t *testing.T) {
		p := Profiles[DefaultProfile]
		p.MaxAPYSlope = 20
		require.Error(t, p.Validate())
	})
	t.Run("penalty window covers shortest lock", func(t *testing.T) {
		p := Profiles[DefaultProfile]
		p.MinPenaltyWindow = 90 * day
		require.ErrorContains(t, p.Validate(), "min penalty window")

		p.MinPenaltyWindow = 89 * day
		require.NoError(t, p.Validate())
	})
	t.Run("override bonus weights", func(t *testing.T) {
		cfg := StakingConfig{Profile: DefaultProfile, BonusWeightsVersion: "v2"}
		p, err := cfg.ResolveProfile()
		require.NoError(t, err)
		assert.Equal(t, BonusWeightVersions["v2"], p.BonusWeights())
		// the shared table is untouched
		assert.Equal(t, "v1", Profiles[DefaultProfile].BonusWeightsVersion)
	})
}

func TestStakingConfig_Restore(t *testing.T) {
	cfg := validConfig()
	cfg.Staking.RestoreFromDb = true
	require.NoError(t, cfg.Validate())

	cfg.Staking.InitialBalances = map[string]string{reporter: "10"}
	require.ErrorContains(t, cfg.Staking.CheckRestore(), "restore-from-db")
}

func TestParseInitialBalances(t *testing.T) {
	cfg := StakingConfig{InitialBalances: map[string]string{
		reporter: "1000000000000000000000",
	}}
	balances, err := cfg.ParseInitialBalances()
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, sdkmath.NewIntWithDecimal(1, 21).String(), balances[common.HexToAddress(reporter)].String())
}

func TestNew(t *testing.T) {
	const yml = `
db:
  username: user
  password: password
  db-name: ledger
  address: mongodb://localhost:27017
metrics:
  host: 0.0.0.0
  port: 2112
server:
  host: 127.0.0.1
  port: 8090
  read-timeout: 5s
poller:
  stats-polling-interval: 30s
staking:
  profile: legacy-restart
  halving-start: "2025-01-01T00:00:00Z"
  privileged-reporters: "` + reporter + `"
  initial-balances:
    "` + reporter + `": "5000"
log-level: debug
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("SERVER_PORT", "9000")

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "ledger", cfg.Db.DbName)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Poller.StatsPollingInterval)
	assert.Equal(t, LegacyRestartProfile, cfg.Staking.Profile)
	assert.True(t, cfg.Staking.HalvingStart.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Nil(t, cfg.Queue)

	balances, err := cfg.Staking.ParseInitialBalances()
	require.NoError(t, err)
	assert.Equal(t, "5000", balances[common.HexToAddress(reporter)].String())
}
