package main

import (
	"context"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"storefront-onchain/config"
	"storefront-onchain/gateway/collection"
	"storefront-onchain/gateway/marketplace"
	"storefront-onchain/gateway/wallet"
	createHandler "storefront-onchain/handler/create"
	listingHandler "storefront-onchain/handler/listing"
	"storefront-onchain/handler/middleware"
	"storefront-onchain/handler/view"
	walletHandler "storefront-onchain/handler/wallet"
	"storefront-onchain/logger"
	"storefront-onchain/metrics"
	createUsecase "storefront-onchain/usecase/create"
	listingUsecase "storefront-onchain/usecase/listing"
	walletUsecase "storefront-onchain/usecase/wallet"
)

func main() {
	// --- 1. 初期設定 ---
	config.Init()
	cfg := config.Get()

	log := logger.NewLogger(cfg.LogPath, cfg.Debug)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		zap.L().Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- 2. ethclientの初期化 ---
	client, err := ethclient.Dial(cfg.Chain.RPCURL)
	if err != nil {
		zap.L().Fatal("Failed to connect to RPC", zap.String("url", cfg.Chain.RPCURL), zap.Error(err))
	}
	zap.L().Info("Successfully connected to network (HTTP)", zap.Int64("chain_id", cfg.Chain.ChainID))

	// WebSocket接続でイベント購読
	wsClient, err := ethclient.Dial(cfg.Chain.WSURL)
	if err != nil {
		zap.L().Warn("Failed to connect WebSocket for events", zap.Error(err))
		wsClient = client
	}

	// --- 3. ウォレットの初期化 ---
	expectedChain := big.NewInt(cfg.Chain.ChainID)
	provider, err := wallet.NewKeyProvider(cfg.Chain.WalletPrivateKey, client)
	if err != nil {
		zap.L().Fatal("Failed to initialize wallet", zap.Error(err))
	}
	provider.AddNetwork(expectedChain, client)
	if cfg.Chain.WalletPrivateKey == "" {
		zap.L().Warn("WALLET_PRIVATE_KEY not set. Trading features will be disabled.")
	}
	session := wallet.NewSession(provider, expectedChain)

	// --- 4. コントラクトゲートウェイの初期化 ---
	fetcher := collection.NewMetadataFetcher(cfg.Metadata.IpfsGateway, cfg.Metadata.Retries, cfg.Metadata.Timeout)
	collGateway, err := collection.NewCollectionGateway(client, cfg.Chain.CollectionAddress, fetcher, cfg.CacheTTL)
	if err != nil {
		zap.L().Fatal("Failed to initialize collection gateway", zap.Error(err))
	}

	nativeSymbol := cfg.Chain.NativeSymbol
	if nativeSymbol == "" {
		nativeSymbol = marketplace.NativeSymbol(cfg.Chain.ChainID)
	}
	marketGateway, err := marketplace.NewMarketplaceGateway(wsClient, cfg.Chain.MarketplaceAddress, collGateway, marketplace.Options{
		NativeSymbol: nativeSymbol,
		TxTimeout:    cfg.TxTimeout,
	})
	if err != nil {
		zap.L().Fatal("Failed to initialize marketplace gateway", zap.Error(err))
	}
	cachedGateway := marketplace.NewCachedGateway(marketGateway, cfg.CacheTTL)

	// 新しいオファーを受け取ったらキャッシュを破棄
	if err := cachedGateway.EvictOnOffers(ctx); err != nil {
		zap.L().Warn("Failed to start offer watcher", zap.Error(err))
	} else {
		zap.L().Info("Offer watcher started")
	}

	// --- 5. 依存性注入 ---
	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	renderer, err := view.NewRenderer(store, session)
	if err != nil {
		zap.L().Fatal("Failed to parse templates", zap.Error(err))
	}

	walletHdlr := walletHandler.NewWalletHandler(walletUsecase.NewWalletUsecase(session), renderer)
	createHdlr := createHandler.NewCreateHandler(createUsecase.NewCreateUsecase(cachedGateway, collGateway, session), session, renderer)
	listingHdlr := listingHandler.NewListingHandler(listingUsecase.NewListingUsecase(cachedGateway, session), renderer)

	// --- 6. ルーティングの設定 ---
	router := mux.NewRouter()
	router.Use(middleware.SameOrigin(cfg.AllowedOrigins))

	// ヘルスチェック用エンドポイント
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
	router.Handle("/metrics", metrics.NewHandler()).Methods("GET")

	router.HandleFunc("/", listingHdlr.HandleHome).Methods("GET")
	router.HandleFunc("/listing/{listingId}", listingHdlr.HandleGetListing).Methods("GET")
	router.HandleFunc("/listing/{listingId}/buy", listingHdlr.HandleBuy).Methods("POST")
	router.HandleFunc("/listing/{listingId}/offer", listingHdlr.HandleOffer).Methods("POST")
	router.HandleFunc("/listing/{listingId}/accept", listingHdlr.HandleAccept).Methods("POST")

	router.HandleFunc("/create", createHdlr.HandleCreatePage).Methods("GET")
	router.HandleFunc("/create", createHdlr.HandleCreateListing).Methods("POST")
	router.HandleFunc("/addItem", createHdlr.HandleAddItem).Methods("GET")

	router.HandleFunc("/wallet/connect", walletHdlr.HandleConnect).Methods("POST")
	router.HandleFunc("/wallet/disconnect", walletHdlr.HandleDisconnect).Methods("POST")

	// --- 7. CORSミドルウェアの設定 ---
	c := cors.New(cors.Options{
		AllowOriginFunc:  middleware.AllowOrigin(cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// --- 8. サーバー起動 ---
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("Failed to shutdown server", zap.Error(err))
		}
	}()

	zap.L().Info("Storefront starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("marketplace", marketGateway.GetContractAddress()),
		zap.String("collection", collGateway.GetContractAddress()))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zap.L().Fatal("could not start server", zap.Error(err))
	}
}
