package mocks

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

type WalletProvider struct {
	mock.Mock
}

func (w *WalletProvider) Connect(arg1 context.Context) (common.Address, error) {
	args := w.Called(arg1)

	return args.Get(0).(common.Address), args.Error(1)
}

func (w *WalletProvider) Disconnect() {
	w.Called()
}

func (w *WalletProvider) Address() (common.Address, bool) {
	args := w.Called()

	return args.Get(0).(common.Address), args.Bool(1)
}

func (w *WalletProvider) ChainID(arg1 context.Context) (*big.Int, error) {
	args := w.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (w *WalletProvider) SwitchChain(arg1 context.Context, arg2 *big.Int) error {
	args := w.Called(arg1, arg2)

	return args.Error(0)
}

func (w *WalletProvider) TransactOpts(arg1 context.Context) (*bind.TransactOpts, error) {
	args := w.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bind.TransactOpts), args.Error(1)
}
