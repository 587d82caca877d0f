package marketplace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"storefront-onchain/metrics"
	"storefront-onchain/model"
)

// 最小入札額の計算に使う基準値 (10000 bps = 100%)
const maxBps = 10000

// トップページに表示する出品の最大件数
const MaxBrowseListings = 100

var nativeToken = common.HexToAddress(model.NativeTokenAddress)

// uint256 の時刻はこれ以上を 9999-12-31 として扱う
const maxUnixSeconds = 253402300799

// unixTime はコントラクトの秒数を time.Time に変換する
func unixTime(v *big.Int) time.Time {
	if v == nil || v.Sign() < 0 {
		return time.Unix(0, 0)
	}
	if !v.IsInt64() || v.Int64() > maxUnixSeconds {
		return time.Unix(maxUnixSeconds, 0)
	}
	return time.Unix(v.Int64(), 0)
}

// Backend はコントラクトの読み書きに必要なRPC (ethclient.Client が満たす)
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// MetadataResolver は出品されたNFTのメタデータを解決する
type MetadataResolver interface {
	GetNFT(ctx context.Context, assetContract common.Address, tokenID *big.Int) (model.Asset, error)
}

// Gateway はマーケットプレイスコントラクトとの連携を担当
type Gateway interface {
	// GetListing は出品IDから出品情報を取得
	GetListing(ctx context.Context, listingID *big.Int) (*model.Listing, error)

	// GetActiveListings は現在購入・入札可能な出品を取得
	GetActiveListings(ctx context.Context) ([]*model.Listing, error)

	// GetOffers は出品に対するオファー一覧を取得
	GetOffers(ctx context.Context, listingID *big.Int) ([]*model.Offer, error)

	// GetMinimumNextBid はオークションの次回最低入札額を取得
	GetMinimumNextBid(ctx context.Context, listingID *big.Int) (model.CurrencyValue, error)

	CreateDirectListing(ctx context.Context, opts *bind.TransactOpts, params model.DirectListingParams) (*model.TxReceipt, error)
	CreateAuctionListing(ctx context.Context, opts *bind.TransactOpts, params model.AuctionListingParams) (*model.TxReceipt, error)
	MakeBid(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, pricePerToken *big.Int) (*model.TxReceipt, error)
	MakeOffer(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, pricePerToken *big.Int) (*model.TxReceipt, error)
	BuyNow(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, quantity *big.Int) (*model.TxReceipt, error)
	AcceptOffer(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, offeror common.Address) (*model.TxReceipt, error)

	// WatchOffers は新しいオファーのイベントを購読
	WatchOffers(ctx context.Context) (<-chan *model.Offer, error)

	GetContractAddress() string
}

// Options はゲートウェイの動作設定
type Options struct {
	NativeSymbol string
	TxTimeout    time.Duration
}

// MarketplaceGateway はマーケットプレイスコントラクトとの連携実装
type MarketplaceGateway struct {
	backend         Backend
	contractAddress common.Address
	contractABI     abi.ABI
	erc20ABI        abi.ABI
	bound           *bind.BoundContract
	metadata        MetadataResolver
	nativeSymbol    string
	txTimeout       time.Duration
	currencies      *cache.Cache
	now             func() time.Time
}

// NewMarketplaceGateway は新しいマーケットプレイスゲートウェイを作成
func NewMarketplaceGateway(backend Backend, contractAddr string, metadata MetadataResolver, opts Options) (*MarketplaceGateway, error) {
	parsedABI, err := abi.JSON(strings.NewReader(MarketplaceABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse marketplace ABI: %w", err)
	}
	erc20ABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	contractAddress := common.HexToAddress(contractAddr)
	if contractAddress == (common.Address{}) {
		zap.L().Warn("Marketplace contract address appears to be zero address")
	}

	if opts.NativeSymbol == "" {
		opts.NativeSymbol = "ETH"
	}
	if opts.TxTimeout == 0 {
		opts.TxTimeout = 2 * time.Minute
	}

	zap.L().Info("Initialized marketplace gateway",
		zap.String("contract", contractAddress.Hex()),
		zap.String("native_symbol", opts.NativeSymbol))

	return &MarketplaceGateway{
		backend:         backend,
		contractAddress: contractAddress,
		contractABI:     parsedABI,
		erc20ABI:        erc20ABI,
		bound:           bind.NewBoundContract(contractAddress, parsedABI, backend, backend, backend),
		metadata:        metadata,
		nativeSymbol:    opts.NativeSymbol,
		txTimeout:       opts.TxTimeout,
		currencies:      cache.New(cache.NoExpiration, 0),
		now:             time.Now,
	}, nil
}

func (g *MarketplaceGateway) GetContractAddress() string {
	return g.contractAddress.Hex()
}

// call はviewメソッドを呼び出して生の戻り値を返す
func (g *MarketplaceGateway) call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]byte, error) {
	defer metrics.ObserveCall("marketplace", method, time.Now())

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}
	result, err := g.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	return result, nil
}

type rawListing struct {
	ListingId            *big.Int
	TokenOwner           common.Address
	AssetContract        common.Address
	TokenId              *big.Int
	StartTime            *big.Int
	EndTime              *big.Int
	Quantity             *big.Int
	Currency             common.Address
	ReservePricePerToken *big.Int
	BuyoutPricePerToken  *big.Int
	TokenType            uint8
	ListingType          uint8
}

type rawOffer struct {
	ListingId           *big.Int
	Offeror             common.Address
	QuantityWanted      *big.Int
	Currency            common.Address
	PricePerToken       *big.Int
	ExpirationTimestamp *big.Int
}

func (g *MarketplaceGateway) getRawListing(ctx context.Context, listingID *big.Int) (*rawListing, error) {
	result, err := g.call(ctx, g.contractAddress, g.contractABI, "listings", listingID)
	if err != nil {
		return nil, err
	}

	var raw rawListing
	if err := g.contractABI.UnpackIntoInterface(&raw, "listings", result); err != nil {
		return nil, fmt.Errorf("failed to decode listing %s: %w", listingID, err)
	}

	// 存在しない・削除済みの出品は assetContract がゼロアドレス
	if raw.AssetContract == (common.Address{}) {
		return nil, fmt.Errorf("listing %s: %w", listingID, model.ErrListingNotFound)
	}
	return &raw, nil
}

// GetListing はコントラクトから出品情報を取得
func (g *MarketplaceGateway) GetListing(ctx context.Context, listingID *big.Int) (*model.Listing, error) {
	raw, err := g.getRawListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return g.toListing(ctx, listingID, raw)
}

func (g *MarketplaceGateway) toListing(ctx context.Context, listingID *big.Int, raw *rawListing) (*model.Listing, error) {
	buyout, err := g.GetCurrencyValue(ctx, raw.Currency, raw.BuyoutPricePerToken)
	if err != nil {
		return nil, err
	}

	asset := model.Asset{TokenID: raw.TokenId}
	if g.metadata != nil {
		md, err := g.metadata.GetNFT(ctx, raw.AssetContract, raw.TokenId)
		if err != nil {
			zap.L().Warn("Failed to resolve listing metadata",
				zap.String("listing_id", listingID.String()),
				zap.String("token_id", raw.TokenId.String()),
				zap.Error(err))
		} else {
			asset = md
		}
	}

	return &model.Listing{
		ID:                  new(big.Int).Set(listingID),
		Type:                model.ListingType(raw.ListingType),
		SellerAddress:       raw.TokenOwner.Hex(),
		AssetContract:       raw.AssetContract.Hex(),
		TokenID:             raw.TokenId,
		Asset:               asset,
		Quantity:            raw.Quantity,
		Currency:            raw.Currency.Hex(),
		BuyoutPrice:         raw.BuyoutPricePerToken,
		ReservePrice:        raw.ReservePricePerToken,
		BuyoutCurrencyValue: buyout,
		StartTime:           unixTime(raw.StartTime),
		EndTime:             unixTime(raw.EndTime),
	}, nil
}

// GetActiveListings は新しい順に、数量が残っていて期間内の出品を返す
func (g *MarketplaceGateway) GetActiveListings(ctx context.Context) ([]*model.Listing, error) {
	result, err := g.call(ctx, g.contractAddress, g.contractABI, "totalListings")
	if err != nil {
		return nil, err
	}
	out, err := g.contractABI.Unpack("totalListings", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode totalListings: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("failed to decode totalListings: empty result")
	}
	total, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected totalListings type %T", out[0])
	}
	last := int64(math.MaxInt64)
	if total.IsInt64() {
		last = total.Int64()
	}

	now := g.now()
	listings := make([]*model.Listing, 0)
	for i := last - 1; i >= 0 && len(listings) < MaxBrowseListings; i-- {
		id := big.NewInt(i)
		raw, err := g.getRawListing(ctx, id)
		if errors.Is(err, model.ErrListingNotFound) {
			// 削除済み
			continue
		}
		if err != nil {
			return nil, err
		}
		if raw.Quantity.Sign() == 0 {
			continue
		}
		if now.Before(unixTime(raw.StartTime)) || !now.Before(unixTime(raw.EndTime)) {
			continue
		}

		listing, err := g.toListing(ctx, id, raw)
		if err != nil {
			zap.L().Warn("Skipping listing", zap.String("listing_id", id.String()), zap.Error(err))
			continue
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// GetOffers は NewOffer イベントから出品へのオファーを集める。同じオファー者は最新のものだけ残す。
func (g *MarketplaceGateway) GetOffers(ctx context.Context, listingID *big.Int) ([]*model.Offer, error) {
	defer metrics.ObserveCall("marketplace", "NewOffer", time.Now())

	query := ethereum.FilterQuery{
		Addresses: []common.Address{g.contractAddress},
		Topics: [][]common.Hash{
			{g.contractABI.Events["NewOffer"].ID},
			{common.BigToHash(listingID)},
		},
	}

	logs, err := g.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to filter offers for listing %s: %w", listingID, err)
	}

	latest := make(map[common.Address]int)
	offers := make([]*model.Offer, 0, len(logs))
	for _, vLog := range logs {
		offer := g.parseNewOffer(vLog)
		if offer == nil {
			continue
		}
		offer.Display, err = g.GetCurrencyValue(ctx, common.HexToAddress(offer.Currency), offer.TotalOfferAmount)
		if err != nil {
			return nil, err
		}

		offeror := common.HexToAddress(offer.Offeror)
		if idx, ok := latest[offeror]; ok {
			offers[idx] = offer
			continue
		}
		latest[offeror] = len(offers)
		offers = append(offers, offer)
	}

	return offers, nil
}

// parseNewOffer はログを Offer に変換
func (g *MarketplaceGateway) parseNewOffer(vLog types.Log) *model.Offer {
	event := g.contractABI.Events["NewOffer"]
	if len(vLog.Topics) < 4 || vLog.Topics[0] != event.ID {
		return nil
	}

	// indexed: listingId, offeror, listingType
	offer := &model.Offer{
		ListingID:   new(big.Int).SetBytes(vLog.Topics[1].Bytes()),
		Offeror:     common.HexToAddress(vLog.Topics[2].Hex()).Hex(),
		ListingType: model.ListingType(new(big.Int).SetBytes(vLog.Topics[3].Bytes()).Uint64()),
		BlockNo:     vLog.BlockNumber,
	}

	data := make(map[string]interface{})
	if err := g.contractABI.UnpackIntoMap(data, "NewOffer", vLog.Data); err != nil {
		zap.L().Warn("Failed to unpack NewOffer", zap.String("tx_hash", vLog.TxHash.Hex()), zap.Error(err))
		return nil
	}

	if quantity, ok := data["quantityWanted"].(*big.Int); ok {
		offer.Quantity = quantity
	}
	if total, ok := data["totalOfferAmount"].(*big.Int); ok {
		offer.TotalOfferAmount = total
	}
	if currency, ok := data["currency"].(common.Address); ok {
		offer.Currency = currency.Hex()
	}

	return offer
}

// GetMinimumNextBid は (現在の最高入札 または 最低落札価格) + その bidBufferBps 分 を返す
func (g *MarketplaceGateway) GetMinimumNextBid(ctx context.Context, listingID *big.Int) (model.CurrencyValue, error) {
	raw, err := g.getRawListing(ctx, listingID)
	if err != nil {
		return model.CurrencyValue{}, err
	}

	result, err := g.call(ctx, g.contractAddress, g.contractABI, "winningBid", listingID)
	if err != nil {
		return model.CurrencyValue{}, err
	}
	var winning rawOffer
	if err := g.contractABI.UnpackIntoInterface(&winning, "winningBid", result); err != nil {
		return model.CurrencyValue{}, fmt.Errorf("failed to decode winning bid: %w", err)
	}

	result, err = g.call(ctx, g.contractAddress, g.contractABI, "bidBufferBps")
	if err != nil {
		return model.CurrencyValue{}, err
	}
	out, err := g.contractABI.Unpack("bidBufferBps", result)
	if err != nil || len(out) == 0 {
		return model.CurrencyValue{}, fmt.Errorf("failed to decode bidBufferBps: %v", err)
	}
	bps, ok := out[0].(uint64)
	if !ok {
		return model.CurrencyValue{}, fmt.Errorf("unexpected bidBufferBps type %T", out[0])
	}

	next := MinimumNextBid(winning.PricePerToken, raw.ReservePricePerToken, bps)
	return g.GetCurrencyValue(ctx, raw.Currency, next)
}

// MinimumNextBid は最低入札額を計算する。入札が無ければ最低落札価格を基準にする。
func MinimumNextBid(currentBid, reservePrice *big.Int, bidBufferBps uint64) *big.Int {
	base := reservePrice
	if currentBid != nil && currentBid.Sign() > 0 {
		base = currentBid
	}
	if base == nil {
		return big.NewInt(0)
	}

	buffer := new(big.Int).Mul(base, new(big.Int).SetUint64(bidBufferBps))
	buffer.Div(buffer, big.NewInt(maxBps))
	return new(big.Int).Add(base, buffer)
}

// GetCurrencyValue は通貨アドレスと金額から表示用の値を作る
func (g *MarketplaceGateway) GetCurrencyValue(ctx context.Context, currency common.Address, value *big.Int) (model.CurrencyValue, error) {
	if value == nil {
		value = big.NewInt(0)
	}

	symbol, decimals, err := g.currencyInfo(ctx, currency)
	if err != nil {
		return model.CurrencyValue{}, err
	}

	return model.CurrencyValue{
		Value:        value,
		DisplayValue: model.FormatUnits(value, decimals),
		Symbol:       symbol,
		Decimals:     decimals,
	}, nil
}

type currencyMeta struct {
	symbol   string
	decimals uint8
}

func (g *MarketplaceGateway) currencyInfo(ctx context.Context, currency common.Address) (string, uint8, error) {
	if currency == nativeToken || currency == (common.Address{}) {
		return g.nativeSymbol, model.EtherDecimals, nil
	}
	if cached, ok := g.currencies.Get(currency.Hex()); ok {
		meta := cached.(currencyMeta)
		return meta.symbol, meta.decimals, nil
	}

	result, err := g.call(ctx, currency, g.erc20ABI, "symbol")
	if err != nil {
		return "", 0, err
	}
	out, err := g.erc20ABI.Unpack("symbol", result)
	if err != nil || len(out) == 0 {
		return "", 0, fmt.Errorf("failed to decode symbol of %s: %v", currency.Hex(), err)
	}
	symbol, _ := out[0].(string)

	result, err = g.call(ctx, currency, g.erc20ABI, "decimals")
	if err != nil {
		return "", 0, err
	}
	out, err = g.erc20ABI.Unpack("decimals", result)
	if err != nil || len(out) == 0 {
		return "", 0, fmt.Errorf("failed to decode decimals of %s: %v", currency.Hex(), err)
	}
	decimals, _ := out[0].(uint8)

	g.currencies.Set(currency.Hex(), currencyMeta{symbol: symbol, decimals: decimals}, cache.NoExpiration)
	return symbol, decimals, nil
}

// ListingParameters は createListing に渡すタプル
type ListingParameters struct {
	AssetContract        common.Address
	TokenId              *big.Int
	StartTime            *big.Int
	SecondsUntilEndTime  *big.Int
	QuantityToList       *big.Int
	CurrencyToAccept     common.Address
	ReservePricePerToken *big.Int
	BuyoutPricePerToken  *big.Int
	ListingType          uint8
}

func (g *MarketplaceGateway) CreateDirectListing(ctx context.Context, opts *bind.TransactOpts, params model.DirectListingParams) (*model.TxReceipt, error) {
	return g.transact(ctx, opts, nil, "createListing", ListingParameters{
		AssetContract:        common.HexToAddress(params.AssetContract),
		TokenId:              params.TokenID,
		StartTime:            big.NewInt(params.StartTime.Unix()),
		SecondsUntilEndTime:  big.NewInt(int64(params.Duration / time.Second)),
		QuantityToList:       params.Quantity,
		CurrencyToAccept:     common.HexToAddress(params.Currency),
		ReservePricePerToken: big.NewInt(0),
		BuyoutPricePerToken:  params.BuyoutPrice,
		ListingType:          uint8(model.ListingTypeDirect),
	})
}

func (g *MarketplaceGateway) CreateAuctionListing(ctx context.Context, opts *bind.TransactOpts, params model.AuctionListingParams) (*model.TxReceipt, error) {
	reserve := params.ReservePrice
	if reserve == nil {
		reserve = big.NewInt(0)
	}
	return g.transact(ctx, opts, nil, "createListing", ListingParameters{
		AssetContract:        common.HexToAddress(params.AssetContract),
		TokenId:              params.TokenID,
		StartTime:            big.NewInt(params.StartTime.Unix()),
		SecondsUntilEndTime:  big.NewInt(int64(params.Duration / time.Second)),
		QuantityToList:       params.Quantity,
		CurrencyToAccept:     common.HexToAddress(params.Currency),
		ReservePricePerToken: reserve,
		BuyoutPricePerToken:  params.BuyoutPrice,
		ListingType:          uint8(model.ListingTypeAuction),
	})
}

// MakeBid はオークションに入札する (ネイティブ通貨なら value を付ける)
func (g *MarketplaceGateway) MakeBid(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, pricePerToken *big.Int) (*model.TxReceipt, error) {
	if !listing.IsAuction() {
		return nil, fmt.Errorf("bid on listing %s: %w", listing.ID, model.ErrUnsupportedAction)
	}

	currency := common.HexToAddress(listing.Currency)
	var value *big.Int
	if currency == nativeToken {
		value = new(big.Int).Mul(pricePerToken, listing.Quantity)
	}
	return g.transact(ctx, opts, value, "offer",
		listing.ID, listing.Quantity, currency, pricePerToken, big.NewInt(listing.EndTime.Unix()))
}

// MakeOffer はDirect出品にオファーする。ネイティブ通貨のオファーはコントラクト側でラップ通貨に置き換わる。
func (g *MarketplaceGateway) MakeOffer(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, pricePerToken *big.Int) (*model.TxReceipt, error) {
	if !listing.IsDirect() {
		return nil, fmt.Errorf("offer on listing %s: %w", listing.ID, model.ErrUnsupportedAction)
	}

	return g.transact(ctx, opts, nil, "offer",
		listing.ID, big.NewInt(1), common.HexToAddress(listing.Currency), pricePerToken, big.NewInt(listing.EndTime.Unix()))
}

// BuyNow は即決価格で購入する。オークションの場合は即決価格での入札になる。
func (g *MarketplaceGateway) BuyNow(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, quantity *big.Int) (*model.TxReceipt, error) {
	if opts == nil {
		return nil, model.ErrNotConnected
	}
	if listing.IsAuction() {
		return g.MakeBid(ctx, opts, listing, listing.BuyoutPrice)
	}

	currency := common.HexToAddress(listing.Currency)
	total := new(big.Int).Mul(listing.BuyoutPrice, quantity)
	var value *big.Int
	if currency == nativeToken {
		value = total
	}
	return g.transact(ctx, opts, value, "buy", listing.ID, opts.From, quantity, currency, total)
}

// AcceptOffer はコントラクトに保存されたオファー内容でオファーを承諾する
func (g *MarketplaceGateway) AcceptOffer(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, offeror common.Address) (*model.TxReceipt, error) {
	if !listing.IsDirect() {
		return nil, fmt.Errorf("accept offer on listing %s: %w", listing.ID, model.ErrUnsupportedAction)
	}

	result, err := g.call(ctx, g.contractAddress, g.contractABI, "offers", listing.ID, offeror)
	if err != nil {
		return nil, err
	}
	var offer rawOffer
	if err := g.contractABI.UnpackIntoInterface(&offer, "offers", result); err != nil {
		return nil, fmt.Errorf("failed to decode offer: %w", err)
	}
	if offer.Offeror == (common.Address{}) {
		return nil, fmt.Errorf("no offer from %s on listing %s", offeror.Hex(), listing.ID)
	}

	return g.transact(ctx, opts, nil, "acceptOffer", listing.ID, offeror, offer.Currency, offer.PricePerToken)
}

// transact はトランザクションを送信し、マイニングされるまで待ってレシートを検証する
func (g *MarketplaceGateway) transact(ctx context.Context, opts *bind.TransactOpts, value *big.Int, method string, args ...interface{}) (*model.TxReceipt, error) {
	defer metrics.ObserveCall("marketplace", method, time.Now())

	if opts == nil {
		return nil, model.ErrNotConnected
	}
	txOpts := *opts
	txOpts.Context = ctx
	txOpts.Value = value

	tx, err := g.bound.Transact(&txOpts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}
	zap.L().Info("Transaction sent",
		zap.String("method", method),
		zap.String("from", opts.From.Hex()),
		zap.String("tx_hash", tx.Hash().Hex()))

	waitCtx, cancel := context.WithTimeout(ctx, g.txTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, g.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for %s (%s): %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s (%s): %w", method, tx.Hash().Hex(), model.ErrTxFailed)
	}

	zap.L().Info("Transaction confirmed",
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
		zap.Uint64("gas_used", receipt.GasUsed))

	return &model.TxReceipt{
		TxHash:      tx.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}

// WatchOffers は NewOffer イベントをWebSocket経由で購読
func (g *MarketplaceGateway) WatchOffers(ctx context.Context) (<-chan *model.Offer, error) {
	offerChan := make(chan *model.Offer, 100)

	query := ethereum.FilterQuery{
		Addresses: []common.Address{g.contractAddress},
		Topics:    [][]common.Hash{{g.contractABI.Events["NewOffer"].ID}},
	}

	logs := make(chan types.Log)
	sub, err := g.backend.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to offers: %w", err)
	}
	zap.L().Info("Subscribed to NewOffer events", zap.String("contract", g.contractAddress.Hex()))

	go func() {
		defer close(offerChan)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				zap.L().Error("Offer subscription error", zap.Error(err))
				return
			case vLog := <-logs:
				if vLog.Address != g.contractAddress {
					continue
				}
				offer := g.parseNewOffer(vLog)
				if offer == nil {
					continue
				}
				select {
				case offerChan <- offer:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return offerChan, nil
}
