package marketplace

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"storefront-onchain/mocks"
	"storefront-onchain/model"
)

func TestCachedGateway_GetListing(t *testing.T) {
	gw := &mocks.MarketplaceGateway{}
	listing := &model.Listing{ID: big.NewInt(1)}
	gw.On("GetListing", mock.Anything, mock.Anything).Return(listing, nil).Once()

	c := NewCachedGateway(gw, time.Minute)
	for i := 0; i < 3; i++ {
		got, err := c.GetListing(context.Background(), big.NewInt(1))
		require.NoError(t, err)
		assert.Same(t, listing, got)
	}
	gw.AssertNumberOfCalls(t, "GetListing", 1)
}

func TestCachedGateway_ErrorsAreNotCached(t *testing.T) {
	gw := &mocks.MarketplaceGateway{}
	gw.On("GetListing", mock.Anything, mock.Anything).Return(nil, model.ErrListingNotFound).Twice()

	c := NewCachedGateway(gw, time.Minute)
	for i := 0; i < 2; i++ {
		_, err := c.GetListing(context.Background(), big.NewInt(2))
		assert.ErrorIs(t, err, model.ErrListingNotFound)
	}
	gw.AssertNumberOfCalls(t, "GetListing", 2)
}

func TestCachedGateway_Evict(t *testing.T) {
	gw := &mocks.MarketplaceGateway{}
	id := big.NewInt(3)
	gw.On("GetOffers", mock.Anything, id).Return([]*model.Offer{}, nil)
	gw.On("GetMinimumNextBid", mock.Anything, id).Return(model.CurrencyValue{DisplayValue: "1.0"}, nil)

	c := NewCachedGateway(gw, time.Minute)
	ctx := context.Background()
	_, _ = c.GetOffers(ctx, id)
	_, _ = c.GetMinimumNextBid(ctx, id)
	_, _ = c.GetOffers(ctx, id)
	_, _ = c.GetMinimumNextBid(ctx, id)
	gw.AssertNumberOfCalls(t, "GetOffers", 1)
	gw.AssertNumberOfCalls(t, "GetMinimumNextBid", 1)

	c.Evict(id)
	_, _ = c.GetOffers(ctx, id)
	_, _ = c.GetMinimumNextBid(ctx, id)
	gw.AssertNumberOfCalls(t, "GetOffers", 2)
	gw.AssertNumberOfCalls(t, "GetMinimumNextBid", 2)
}

func TestCachedGateway_EvictOnOffers(t *testing.T) {
	gw := &mocks.MarketplaceGateway{}
	id := big.NewInt(4)
	offers := make(chan *model.Offer, 1)
	gw.On("WatchOffers", mock.Anything).Return((<-chan *model.Offer)(offers), nil)
	gw.On("GetOffers", mock.Anything, id).Return([]*model.Offer{}, nil)

	c := NewCachedGateway(gw, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	_, _ = c.GetOffers(ctx, id)

	require.NoError(t, c.EvictOnOffers(ctx))
	offers <- &model.Offer{ListingID: id, Offeror: offerorA.Hex()}
	// 停止後は再購読しない
	cancel()
	close(offers)

	assert.Eventually(t, func() bool {
		_, cached := c.cache.Get(offersKey(id))
		return !cached
	}, time.Second, 10*time.Millisecond)
	gw.AssertNumberOfCalls(t, "WatchOffers", 1)
}

func TestCachedGateway_EvictOnOffersResubscribes(t *testing.T) {
	gw := &mocks.MarketplaceGateway{}
	id := big.NewInt(5)
	closed := make(chan *model.Offer)
	close(closed)
	live := make(chan *model.Offer, 1)
	subscriptions := atomic.NewInt32(0)
	count := func(mock.Arguments) { subscriptions.Inc() }
	gw.On("WatchOffers", mock.Anything).Return((<-chan *model.Offer)(closed), nil).Run(count).Once()
	gw.On("WatchOffers", mock.Anything).Return(nil, errors.New("websocket closed")).Run(count).Once()
	gw.On("WatchOffers", mock.Anything).Return((<-chan *model.Offer)(live), nil).Run(count).Once()
	gw.On("GetOffers", mock.Anything, id).Return([]*model.Offer{}, nil)

	c := NewCachedGateway(gw, time.Minute)
	c.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, _ = c.GetOffers(ctx, id)
	require.NoError(t, c.EvictOnOffers(ctx))

	// 切断後はキャッシュを全て破棄して再購読する
	assert.Eventually(t, func() bool {
		_, cached := c.cache.Get(offersKey(id))
		return subscriptions.Load() == 3 && !cached
	}, time.Second, 5*time.Millisecond)

	_, _ = c.GetOffers(ctx, id)
	live <- &model.Offer{ListingID: id, Offeror: offerorB.Hex()}
	assert.Eventually(t, func() bool {
		_, cached := c.cache.Get(offersKey(id))
		return !cached
	}, time.Second, 5*time.Millisecond)
}

func TestCachedGateway_ActiveListings(t *testing.T) {
	gw := &mocks.MarketplaceGateway{}
	gw.On("GetActiveListings", mock.Anything).Return([]*model.Listing{{ID: big.NewInt(0)}}, nil).Once()

	c := NewCachedGateway(gw, time.Minute)
	for i := 0; i < 2; i++ {
		listings, err := c.GetActiveListings(context.Background())
		require.NoError(t, err)
		assert.Len(t, listings, 1)
	}
}

func TestCachedGateway_EvictsAfterPurchase(t *testing.T) {
	gw := &mocks.MarketplaceGateway{}
	listing := &model.Listing{ID: big.NewInt(4)}
	gw.On("GetListing", mock.Anything, mock.Anything).Return(listing, nil)
	gw.On("BuyNow", mock.Anything, mock.Anything, listing, mock.Anything).Return(&model.TxReceipt{TxHash: "0x1"}, nil)

	c := NewCachedGateway(gw, time.Minute)
	_, err := c.GetListing(context.Background(), big.NewInt(4))
	require.NoError(t, err)

	receipt, err := c.BuyNow(context.Background(), nil, listing, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "0x1", receipt.TxHash)

	_, err = c.GetListing(context.Background(), big.NewInt(4))
	require.NoError(t, err)
	gw.AssertNumberOfCalls(t, "GetListing", 2)
}
