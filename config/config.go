package config

import (
	"errors"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はストアフロント全体の設定
type Config struct {
	Env     string
	Debug   bool
	Port    string
	LogPath string

	Chain      ChainConfig
	Metadata   MetadataConfig
	CacheTTL   time.Duration
	SessionKey string
	TxTimeout  time.Duration
	// 書き込みとCORSを許可する別オリジン (自ホストは常に許可)
	AllowedOrigins []string
}

// ChainConfig は接続先ネットワークとコントラクトの設定
type ChainConfig struct {
	RPCURL             string
	WSURL              string
	ChainID            int64
	MarketplaceAddress string
	CollectionAddress  string
	WalletPrivateKey   string
	NativeSymbol       string
}

// MetadataConfig はNFTメタデータ取得の設定
type MetadataConfig struct {
	IpfsGateway string
	Retries     int
	Timeout     time.Duration
}

// Init は .env を読み込む（ファイルが無くてもエラーにしない）
func Init() {
	_ = godotenv.Load(".env")
}

func Get() *Config {
	rpcURL := getString("RPC_URL", "")
	return &Config{
		Env:     getString("ENV", "dev"),
		Debug:   getBool("DEBUG", false),
		Port:    getString("PORT", "8080"),
		LogPath: getString("LOG_PATH", "./var/storefront.log"),
		Chain: ChainConfig{
			RPCURL:             rpcURL,
			WSURL:              getString("RPC_WS_URL", rpcURL),
			ChainID:            int64(getInt("CHAIN_ID", 0)),
			MarketplaceAddress: getString("MARKETPLACE_CONTRACT_ADDRESS", ""),
			CollectionAddress:  getString("COLLECTION_CONTRACT_ADDRESS", ""),
			WalletPrivateKey:   getString("WALLET_PRIVATE_KEY", ""),
			NativeSymbol:       getString("NATIVE_SYMBOL", ""),
		},
		Metadata: MetadataConfig{
			IpfsGateway: getString("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),
			Retries:     getInt("METADATA_RETRIES", 3),
			Timeout:     getDuration("METADATA_TIMEOUT", 10*time.Second),
		},
		CacheTTL:   getDuration("CACHE_TTL", 30*time.Second),
		SessionKey: getString("SESSION_SECRET", "storefront-dev-secret"),
		TxTimeout:  getDuration("TX_TIMEOUT", 2*time.Minute),

		AllowedOrigins: getList("ALLOWED_ORIGINS"),
	}
}

// Validate は必須項目の欠落をまとめて返す
func (c *Config) Validate() error {
	var missing []string
	if c.Chain.RPCURL == "" {
		missing = append(missing, "RPC_URL")
	}
	if c.Chain.ChainID == 0 {
		missing = append(missing, "CHAIN_ID")
	}
	if c.Chain.MarketplaceAddress == "" {
		missing = append(missing, "MARKETPLACE_CONTRACT_ADDRESS")
	}
	if c.Chain.CollectionAddress == "" {
		missing = append(missing, "COLLECTION_CONTRACT_ADDRESS")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	valStr := getString(key, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getList(key string) []string {
	var values []string
	for _, v := range strings.Split(getString(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
