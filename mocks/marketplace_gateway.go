package mocks

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"storefront-onchain/model"
)

type MarketplaceGateway struct {
	mock.Mock
}

func (m *MarketplaceGateway) GetListing(arg1 context.Context, arg2 *big.Int) (*model.Listing, error) {
	args := m.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MarketplaceGateway) GetActiveListings(arg1 context.Context) ([]*model.Listing, error) {
	args := m.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Listing), args.Error(1)
}

func (m *MarketplaceGateway) GetOffers(arg1 context.Context, arg2 *big.Int) ([]*model.Offer, error) {
	args := m.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Offer), args.Error(1)
}

func (m *MarketplaceGateway) GetMinimumNextBid(arg1 context.Context, arg2 *big.Int) (model.CurrencyValue, error) {
	args := m.Called(arg1, arg2)

	return args.Get(0).(model.CurrencyValue), args.Error(1)
}

func (m *MarketplaceGateway) CreateDirectListing(arg1 context.Context, arg2 *bind.TransactOpts, arg3 model.DirectListingParams) (*model.TxReceipt, error) {
	args := m.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TxReceipt), args.Error(1)
}

func (m *MarketplaceGateway) CreateAuctionListing(arg1 context.Context, arg2 *bind.TransactOpts, arg3 model.AuctionListingParams) (*model.TxReceipt, error) {
	args := m.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TxReceipt), args.Error(1)
}

func (m *MarketplaceGateway) MakeBid(arg1 context.Context, arg2 *bind.TransactOpts, arg3 *model.Listing, arg4 *big.Int) (*model.TxReceipt, error) {
	args := m.Called(arg1, arg2, arg3, arg4)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TxReceipt), args.Error(1)
}

func (m *MarketplaceGateway) MakeOffer(arg1 context.Context, arg2 *bind.TransactOpts, arg3 *model.Listing, arg4 *big.Int) (*model.TxReceipt, error) {
	args := m.Called(arg1, arg2, arg3, arg4)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TxReceipt), args.Error(1)
}

func (m *MarketplaceGateway) BuyNow(arg1 context.Context, arg2 *bind.TransactOpts, arg3 *model.Listing, arg4 *big.Int) (*model.TxReceipt, error) {
	args := m.Called(arg1, arg2, arg3, arg4)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TxReceipt), args.Error(1)
}

func (m *MarketplaceGateway) AcceptOffer(arg1 context.Context, arg2 *bind.TransactOpts, arg3 *model.Listing, arg4 common.Address) (*model.TxReceipt, error) {
	args := m.Called(arg1, arg2, arg3, arg4)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TxReceipt), args.Error(1)
}

func (m *MarketplaceGateway) WatchOffers(arg1 context.Context) (<-chan *model.Offer, error) {
	args := m.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *model.Offer), args.Error(1)
}

func (m *MarketplaceGateway) GetContractAddress() string {
	args := m.Called()

	return args.String(0)
}
