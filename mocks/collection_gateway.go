package mocks

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"storefront-onchain/model"
)

type CollectionGateway struct {
	mock.Mock
}

func (m *CollectionGateway) GetOwnedNFTs(arg1 context.Context, arg2 common.Address) ([]*model.OwnedNFT, error) {
	args := m.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OwnedNFT), args.Error(1)
}

func (m *CollectionGateway) GetNFT(arg1 context.Context, arg2 common.Address, arg3 *big.Int) (model.Asset, error) {
	args := m.Called(arg1, arg2, arg3)

	return args.Get(0).(model.Asset), args.Error(1)
}

func (m *CollectionGateway) GetContractAddress() string {
	args := m.Called()

	return args.String(0)
}
