package marketplace

import (
	"context"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"storefront-onchain/model"
)

const activeListingsKey = "listings:active"

// CachedGateway は読み取り系の結果を一定時間キャッシュする Gateway
type CachedGateway struct {
	Gateway
	cache *cache.Cache
	// 購読が切れたときの再購読間隔
	newBackOff func() backoff.BackOff
}

func NewCachedGateway(gw Gateway, ttl time.Duration) *CachedGateway {
	return &CachedGateway{
		Gateway: gw,
		cache:   cache.New(ttl, 2*ttl),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func listingKey(id *big.Int) string {
	return "listing:" + id.String()
}

func offersKey(id *big.Int) string {
	return "offers:" + id.String()
}

func minBidKey(id *big.Int) string {
	return "minbid:" + id.String()
}

func (c *CachedGateway) GetListing(ctx context.Context, listingID *big.Int) (*model.Listing, error) {
	if cached, ok := c.cache.Get(listingKey(listingID)); ok {
		return cached.(*model.Listing), nil
	}
	listing, err := c.Gateway.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(listingKey(listingID), listing)
	return listing, nil
}

func (c *CachedGateway) GetActiveListings(ctx context.Context) ([]*model.Listing, error) {
	if cached, ok := c.cache.Get(activeListingsKey); ok {
		return cached.([]*model.Listing), nil
	}
	listings, err := c.Gateway.GetActiveListings(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(activeListingsKey, listings)
	return listings, nil
}

func (c *CachedGateway) GetOffers(ctx context.Context, listingID *big.Int) ([]*model.Offer, error) {
	if cached, ok := c.cache.Get(offersKey(listingID)); ok {
		return cached.([]*model.Offer), nil
	}
	offers, err := c.Gateway.GetOffers(ctx, listingID)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(offersKey(listingID), offers)
	return offers, nil
}

func (c *CachedGateway) GetMinimumNextBid(ctx context.Context, listingID *big.Int) (model.CurrencyValue, error) {
	if cached, ok := c.cache.Get(minBidKey(listingID)); ok {
		return cached.(model.CurrencyValue), nil
	}
	next, err := c.Gateway.GetMinimumNextBid(ctx, listingID)
	if err != nil {
		return model.CurrencyValue{}, err
	}
	c.cache.SetDefault(minBidKey(listingID), next)
	return next, nil
}

// Evict は出品に関するキャッシュを破棄する
func (c *CachedGateway) Evict(listingID *big.Int) {
	c.cache.Delete(listingKey(listingID))
	c.cache.Delete(offersKey(listingID))
	c.cache.Delete(minBidKey(listingID))
	c.cache.Delete(activeListingsKey)
	zap.L().Debug("Evicted listing cache", zap.String("listing_id", listingID.String()))
}

// EvictOnOffers は新しいオファーを受け取るたびに該当出品のキャッシュを破棄する。
// 購読が切れた場合は ctx が終わるまで再購読する
func (c *CachedGateway) EvictOnOffers(ctx context.Context) error {
	offers, err := c.Gateway.WatchOffers(ctx)
	if err != nil {
		return err
	}

	go c.watchOffers(ctx, offers)
	return nil
}

func (c *CachedGateway) watchOffers(ctx context.Context, offers <-chan *model.Offer) {
	for {
		for offer := range offers {
			zap.L().Info("New offer received",
				zap.String("listing_id", offer.ListingID.String()),
				zap.String("offeror", offer.Offeror))
			c.Evict(offer.ListingID)
		}
		if ctx.Err() != nil {
			zap.L().Info("Offer watcher stopped")
			return
		}

		zap.L().Warn("Offer subscription closed, resubscribing")
		resubscribe := func() error {
			next, err := c.Gateway.WatchOffers(ctx)
			if err != nil {
				return err
			}
			offers = next
			return nil
		}
		onRetry := func(err error, wait time.Duration) {
			zap.L().Warn("Failed to resubscribe to offers", zap.Duration("retry_in", wait), zap.Error(err))
		}
		if err := backoff.RetryNotify(resubscribe, backoff.WithContext(c.newBackOff(), ctx), onRetry); err != nil {
			zap.L().Info("Offer watcher stopped", zap.Error(err))
			return
		}
		// 切断中に届いたオファーは取りこぼしているので全て破棄する
		c.cache.Flush()
	}
}

func (c *CachedGateway) evictAfter(listing *model.Listing, receipt *model.TxReceipt, err error) (*model.TxReceipt, error) {
	if err == nil && listing != nil && listing.ID != nil {
		c.Evict(listing.ID)
	}
	return receipt, err
}

func (c *CachedGateway) CreateDirectListing(ctx context.Context, opts *bind.TransactOpts, params model.DirectListingParams) (*model.TxReceipt, error) {
	receipt, err := c.Gateway.CreateDirectListing(ctx, opts, params)
	if err == nil {
		c.cache.Delete(activeListingsKey)
	}
	return receipt, err
}

func (c *CachedGateway) CreateAuctionListing(ctx context.Context, opts *bind.TransactOpts, params model.AuctionListingParams) (*model.TxReceipt, error) {
	receipt, err := c.Gateway.CreateAuctionListing(ctx, opts, params)
	if err == nil {
		c.cache.Delete(activeListingsKey)
	}
	return receipt, err
}

func (c *CachedGateway) MakeBid(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, pricePerToken *big.Int) (*model.TxReceipt, error) {
	receipt, err := c.Gateway.MakeBid(ctx, opts, listing, pricePerToken)
	return c.evictAfter(listing, receipt, err)
}

func (c *CachedGateway) MakeOffer(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, pricePerToken *big.Int) (*model.TxReceipt, error) {
	receipt, err := c.Gateway.MakeOffer(ctx, opts, listing, pricePerToken)
	return c.evictAfter(listing, receipt, err)
}

func (c *CachedGateway) BuyNow(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, quantity *big.Int) (*model.TxReceipt, error) {
	receipt, err := c.Gateway.BuyNow(ctx, opts, listing, quantity)
	return c.evictAfter(listing, receipt, err)
}

func (c *CachedGateway) AcceptOffer(ctx context.Context, opts *bind.TransactOpts, listing *model.Listing, offeror common.Address) (*model.TxReceipt, error) {
	receipt, err := c.Gateway.AcceptOffer(ctx, opts, listing, offeror)
	return c.evictAfter(listing, receipt, err)
}
