package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"storefront-onchain/gateway/marketplace"
	"storefront-onchain/gateway/wallet"
	"storefront-onchain/metrics"
	"storefront-onchain/model"
	"storefront-onchain/notify"
)

const (
	actionBuy    = "buy"
	actionOffer  = "offer"
	actionBid    = "bid"
	actionAccept = "accept_offer"
)

// DetailView は出品詳細ページの表示内容
type DetailView struct {
	Listing        *model.Listing
	Offers         []*model.Offer
	MinimumNextBid model.CurrencyValue
	BidPlaceholder string
	IsSeller       bool
	Ended          bool
}

// ActionResult は取引操作が成功した後の画面遷移
type ActionResult struct {
	Redirect string
	ClearBid bool
	Receipt  *model.TxReceipt
}

// ListingUsecase は出品の閲覧と取引のビジネスロジック
type ListingUsecase interface {
	// Home はトップページに表示する出品を取得
	Home(ctx context.Context) ([]*model.Listing, error)

	// Detail は出品・オファー・最低入札額をまとめて取得
	Detail(ctx context.Context, listingID *big.Int) (*DetailView, error)

	// BuyNow は数量1で即時購入する
	BuyNow(ctx context.Context, listingID *big.Int, n notify.Notifier) (*ActionResult, error)

	// MakeBidOrOffer はDirect出品ならオファー、オークションなら入札を送信する
	MakeBidOrOffer(ctx context.Context, listingID *big.Int, amount string, n notify.Notifier) (*ActionResult, error)

	// AcceptOffer は出品者としてオファーを承認する
	AcceptOffer(ctx context.Context, listingID *big.Int, offeror string, n notify.Notifier) (*ActionResult, error)

	BuyProcessing() bool
	OfferProcessing() bool
}

type listingUsecase struct {
	marketplace marketplace.Gateway
	session     *wallet.Session
	// 購入とオファー承認は同じフラグを共有する
	buying   *atomic.Bool
	offering *atomic.Bool
	now      func() time.Time
}

func NewListingUsecase(market marketplace.Gateway, session *wallet.Session) *listingUsecase {
	return &listingUsecase{
		marketplace: market,
		session:     session,
		buying:      atomic.NewBool(false),
		offering:    atomic.NewBool(false),
		now:         time.Now,
	}
}

func (uc *listingUsecase) BuyProcessing() bool {
	return uc.buying.Load()
}

func (uc *listingUsecase) OfferProcessing() bool {
	return uc.offering.Load()
}

func (uc *listingUsecase) Home(ctx context.Context) ([]*model.Listing, error) {
	return uc.marketplace.GetActiveListings(ctx)
}

func (uc *listingUsecase) Detail(ctx context.Context, listingID *big.Int) (*DetailView, error) {
	listing, err := uc.marketplace.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	view := &DetailView{
		Listing:        listing,
		BidPlaceholder: "Enter Offer Amount",
		IsSeller:       uc.session.IsAddress(listing.SellerAddress),
		Ended:          listing.IsAuction() && listing.Ended(uc.now()),
	}

	offers, err := uc.marketplace.GetOffers(ctx, listingID)
	if err != nil {
		zap.L().Warn("Failed to load offers", zap.String("listing_id", listingID.String()), zap.Error(err))
	}
	view.Offers = offers

	if listing.IsAuction() {
		minBid, err := uc.marketplace.GetMinimumNextBid(ctx, listingID)
		if err != nil {
			zap.L().Warn("Failed to load minimum next bid", zap.String("listing_id", listingID.String()), zap.Error(err))
		}
		view.MinimumNextBid = minBid
		view.BidPlaceholder = bidPlaceholder(minBid)
	}
	return view, nil
}

func bidPlaceholder(minBid model.CurrencyValue) string {
	if minBid.IsZero() {
		return "Enter Bid Amount"
	}
	return fmt.Sprintf("%s %s or more", minBid.DisplayValue, minBid.Symbol)
}

// guard はネットワーク不一致なら切替を依頼して中断し、一致していれば出品を読み込む
func (uc *listingUsecase) guard(ctx context.Context, action string, listingID *big.Int) (*model.Listing, error) {
	mismatch, err := uc.session.NetworkMismatch(ctx)
	if err != nil {
		metrics.RecordAction(action, metrics.OutcomeFailed)
		return nil, err
	}
	if mismatch {
		if err := uc.session.SwitchNetwork(ctx); err != nil {
			zap.L().Warn("Failed to switch network", zap.Error(err))
		}
		metrics.RecordAction(action, metrics.OutcomeAborted)
		return nil, model.ErrNetworkMismatch
	}

	listing, err := uc.marketplace.GetListing(ctx, listingID)
	if err != nil {
		metrics.RecordAction(action, metrics.OutcomeAborted)
		return nil, err
	}
	return listing, nil
}

func (uc *listingUsecase) BuyNow(ctx context.Context, listingID *big.Int, n notify.Notifier) (*ActionResult, error) {
	if !uc.buying.CompareAndSwap(false, true) {
		return nil, model.ErrActionInProgress
	}
	defer uc.buying.Store(false)

	listing, err := uc.guard(ctx, actionBuy, listingID)
	if err != nil {
		return nil, err
	}
	return uc.buy(ctx, listing, n)
}

func (uc *listingUsecase) buy(ctx context.Context, listing *model.Listing, n notify.Notifier) (*ActionResult, error) {
	msgs := notify.Messages{
		Success: "NFT bought successfully",
		Error:   "Error buying NFT",
	}

	var receipt *model.TxReceipt
	err := notify.Track(n, msgs, func() error {
		opts, err := uc.session.TransactOpts(ctx)
		if err != nil {
			return err
		}
		receipt, err = uc.marketplace.BuyNow(ctx, opts, listing, big.NewInt(1))
		return err
	})
	if err != nil {
		zap.L().Error("Failed to buy listing", zap.String("listing_id", listing.ID.String()), zap.Error(err))
		metrics.RecordAction(actionBuy, metrics.OutcomeFailed)
		return nil, err
	}

	zap.L().Info("Listing bought", zap.String("listing_id", listing.ID.String()))
	metrics.RecordAction(actionBuy, metrics.OutcomeSubmitted)
	return &ActionResult{Redirect: "/", Receipt: receipt}, nil
}

func (uc *listingUsecase) MakeBidOrOffer(ctx context.Context, listingID *big.Int, amount string, n notify.Notifier) (*ActionResult, error) {
	if !uc.offering.CompareAndSwap(false, true) {
		return nil, model.ErrActionInProgress
	}
	defer uc.offering.Store(false)

	listing, err := uc.guard(ctx, actionOffer, listingID)
	if err != nil {
		return nil, err
	}

	action := actionOffer
	msgs := notify.Messages{
		Success: "Offer made successfully",
		Error:   "Error making offer",
	}
	if listing.IsAuction() {
		action = actionBid
		msgs = notify.Messages{
			Success: "Bid made successfully",
			Error:   "Error making bid",
		}
	}

	price, err := model.ParseUnits(amount, currencyDecimals(listing))
	if err != nil {
		n.Notify(notify.Notification{Kind: notify.KindError, Message: msgs.Error})
		metrics.RecordAction(action, metrics.OutcomeFailed)
		return nil, err
	}

	// Direct出品で即決価格と同額なら購入として扱う
	if listing.IsDirect() && listing.BuyoutPrice != nil && price.Cmp(listing.BuyoutPrice) == 0 {
		if !uc.buying.CompareAndSwap(false, true) {
			return nil, model.ErrActionInProgress
		}
		defer uc.buying.Store(false)
		return uc.buy(ctx, listing, n)
	}

	var receipt *model.TxReceipt
	err = notify.Track(n, msgs, func() error {
		opts, err := uc.session.TransactOpts(ctx)
		if err != nil {
			return err
		}
		switch listing.Type {
		case model.ListingTypeDirect:
			receipt, err = uc.marketplace.MakeOffer(ctx, opts, listing, price)
		case model.ListingTypeAuction:
			receipt, err = uc.marketplace.MakeBid(ctx, opts, listing, price)
		default:
			err = model.ErrUnsupportedAction
		}
		return err
	})
	if err != nil {
		zap.L().Error("Failed to submit "+action,
			zap.String("listing_id", listing.ID.String()),
			zap.String("amount", amount),
			zap.Error(err))
		metrics.RecordAction(action, metrics.OutcomeFailed)
		return nil, err
	}

	zap.L().Info("Submitted "+action,
		zap.String("listing_id", listing.ID.String()),
		zap.String("amount", amount))
	metrics.RecordAction(action, metrics.OutcomeSubmitted)
	return &ActionResult{ClearBid: true, Receipt: receipt}, nil
}

func (uc *listingUsecase) AcceptOffer(ctx context.Context, listingID *big.Int, offeror string, n notify.Notifier) (*ActionResult, error) {
	if !uc.buying.CompareAndSwap(false, true) {
		return nil, model.ErrActionInProgress
	}
	defer uc.buying.Store(false)

	listing, err := uc.guard(ctx, actionAccept, listingID)
	if err != nil {
		return nil, err
	}
	if !uc.session.IsAddress(listing.SellerAddress) {
		metrics.RecordAction(actionAccept, metrics.OutcomeAborted)
		return nil, model.ErrNotSeller
	}
	if !common.IsHexAddress(offeror) {
		metrics.RecordAction(actionAccept, metrics.OutcomeAborted)
		return nil, fmt.Errorf("invalid offeror address %q", offeror)
	}

	msgs := notify.Messages{
		Success: "Offer accepted successfully",
		Error:   "Error accepting offer",
	}

	var receipt *model.TxReceipt
	err = notify.Track(n, msgs, func() error {
		opts, err := uc.session.TransactOpts(ctx)
		if err != nil {
			return err
		}
		receipt, err = uc.marketplace.AcceptOffer(ctx, opts, listing, common.HexToAddress(offeror))
		return err
	})
	if err != nil {
		zap.L().Error("Failed to accept offer",
			zap.String("listing_id", listing.ID.String()),
			zap.String("offeror", offeror),
			zap.Error(err))
		metrics.RecordAction(actionAccept, metrics.OutcomeFailed)
		return nil, err
	}

	zap.L().Info("Offer accepted",
		zap.String("listing_id", listing.ID.String()),
		zap.String("offeror", offeror))
	metrics.RecordAction(actionAccept, metrics.OutcomeSubmitted)
	return &ActionResult{Redirect: "/", Receipt: receipt}, nil
}

// currencyDecimals は出品通貨の小数桁。不明な場合はネイティブ通貨と同じ18桁
func currencyDecimals(listing *model.Listing) uint8 {
	if listing.BuyoutCurrencyValue.Symbol == "" {
		return model.EtherDecimals
	}
	return listing.BuyoutCurrencyValue.Decimals
}

// IsSilentAbort は通知を出さずに中断した操作かどうか
func IsSilentAbort(err error) bool {
	return errors.Is(err, model.ErrNetworkMismatch) ||
		errors.Is(err, model.ErrListingNotFound) ||
		errors.Is(err, model.ErrNotSeller) ||
		errors.Is(err, model.ErrActionInProgress)
}
