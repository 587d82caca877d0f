package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Defaults(t *testing.T) {
	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("CHAIN_ID", "80001")

	cfg := Get()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8545", cfg.Chain.WSURL)
	assert.Equal(t, int64(80001), cfg.Chain.ChainID)
	assert.Equal(t, 3, cfg.Metadata.Retries)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestGet_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEBUG", "true")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("METADATA_RETRIES", "not-a-number")

	cfg := Get()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.Metadata.Retries)
}

func TestGet_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://shop.example.com, ,http://localhost:3000 ")

	cfg := Get()
	assert.Equal(t, []string{"https://shop.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC_URL")
	assert.Contains(t, err.Error(), "CHAIN_ID")
	assert.Contains(t, err.Error(), "MARKETPLACE_CONTRACT_ADDRESS")
	assert.Contains(t, err.Error(), "COLLECTION_CONTRACT_ADDRESS")

	cfg.Chain = ChainConfig{
		RPCURL:             "http://localhost:8545",
		ChainID:            1,
		MarketplaceAddress: "0x1",
		CollectionAddress:  "0x2",
	}
	assert.NoError(t, cfg.Validate())
}
