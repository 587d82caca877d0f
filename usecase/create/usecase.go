package usecase

import (
	"context"
	"math/big"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"storefront-onchain/gateway/collection"
	"storefront-onchain/gateway/marketplace"
	"storefront-onchain/gateway/wallet"
	"storefront-onchain/metrics"
	"storefront-onchain/model"
	"storefront-onchain/notify"
)

const actionCreate = "create_listing"

// CreateListingInput は出品フォームの入力値
type CreateListingInput struct {
	TokenID *big.Int
	Kind    string
	Price   string
}

// CreateResult は出品成功時の遷移先
type CreateResult struct {
	Redirect string
	Receipt  *model.TxReceipt
}

// CreateUsecase は出品作成のビジネスロジック
type CreateUsecase interface {
	// Page は出品フォームに表示する保有NFTを取得 (未接続なら空)
	Page(ctx context.Context) ([]*model.OwnedNFT, error)

	// CreateListing はDirect出品またはオークション出品を作成
	CreateListing(ctx context.Context, input CreateListingInput, n notify.Notifier) (*CreateResult, error)

	// Processing は出品処理中かどうか
	Processing() bool
}

type createUsecase struct {
	marketplace marketplace.Gateway
	collection  collection.Gateway
	session     *wallet.Session
	processing  *atomic.Bool
	now         func() time.Time
}

func NewCreateUsecase(market marketplace.Gateway, coll collection.Gateway, session *wallet.Session) *createUsecase {
	return &createUsecase{
		marketplace: market,
		collection:  coll,
		session:     session,
		processing:  atomic.NewBool(false),
		now:         time.Now,
	}
}

func (uc *createUsecase) Processing() bool {
	return uc.processing.Load()
}

func (uc *createUsecase) Page(ctx context.Context) ([]*model.OwnedNFT, error) {
	addr, ok := uc.session.Address()
	if !ok {
		return nil, nil
	}
	return uc.collection.GetOwnedNFTs(ctx, addr)
}

func (uc *createUsecase) CreateListing(ctx context.Context, input CreateListingInput, n notify.Notifier) (*CreateResult, error) {
	if !uc.processing.CompareAndSwap(false, true) {
		return nil, model.ErrActionInProgress
	}
	defer uc.processing.Store(false)

	mismatch, err := uc.session.NetworkMismatch(ctx)
	if err != nil {
		metrics.RecordAction(actionCreate, metrics.OutcomeFailed)
		return nil, err
	}
	if mismatch {
		if err := uc.session.SwitchNetwork(ctx); err != nil {
			zap.L().Warn("Failed to switch network", zap.Error(err))
		}
		metrics.RecordAction(actionCreate, metrics.OutcomeAborted)
		return nil, model.ErrNetworkMismatch
	}

	if input.TokenID == nil {
		metrics.RecordAction(actionCreate, metrics.OutcomeAborted)
		return nil, model.ErrNoSelection
	}

	kind, ok := model.ParseListingType(input.Kind)
	if !ok {
		zap.L().Warn("Unknown listing type", zap.String("kind", input.Kind))
		metrics.RecordAction(actionCreate, metrics.OutcomeAborted)
		return nil, model.ErrUnsupportedAction
	}

	msgs := notify.Messages{
		Pending: "Creating listing...",
		Success: "Successfully Listed!",
		Error:   "Could not list. Try again later.",
	}
	if kind == model.ListingTypeAuction {
		msgs.Pending = "Creating auction..."
		msgs.Success = "Successfully Listed the Auction!"
	}

	var receipt *model.TxReceipt
	err = notify.Track(n, msgs, func() error {
		price, err := model.ParseEther(input.Price)
		if err != nil {
			return err
		}
		opts, err := uc.session.TransactOpts(ctx)
		if err != nil {
			return err
		}

		start := uc.now()
		assetContract := uc.collection.GetContractAddress()
		switch kind {
		case model.ListingTypeAuction:
			receipt, err = uc.marketplace.CreateAuctionListing(ctx, opts, model.AuctionListingParams{
				AssetContract: assetContract,
				TokenID:       input.TokenID,
				Currency:      model.NativeTokenAddress,
				StartTime:     start,
				Duration:      model.ListingDuration,
				Quantity:      big.NewInt(1),
				BuyoutPrice:   price,
				ReservePrice:  big.NewInt(0),
			})
		default:
			receipt, err = uc.marketplace.CreateDirectListing(ctx, opts, model.DirectListingParams{
				AssetContract: assetContract,
				TokenID:       input.TokenID,
				Currency:      model.NativeTokenAddress,
				StartTime:     start,
				Duration:      model.ListingDuration,
				Quantity:      big.NewInt(1),
				BuyoutPrice:   price,
			})
		}
		return err
	})
	if err != nil {
		zap.L().Error("Failed to create listing",
			zap.String("type", kind.String()),
			zap.String("token_id", input.TokenID.String()),
			zap.Error(err))
		metrics.RecordAction(actionCreate, metrics.OutcomeFailed)
		return nil, err
	}

	fields := []zap.Field{zap.String("type", kind.String()), zap.String("token_id", input.TokenID.String())}
	if receipt != nil {
		fields = append(fields, zap.String("tx_hash", receipt.TxHash))
	}
	zap.L().Info("Listing created", fields...)
	metrics.RecordAction(actionCreate, metrics.OutcomeSubmitted)

	return &CreateResult{Redirect: "/", Receipt: receipt}, nil
}
