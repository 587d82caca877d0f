package wallet

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"storefront-onchain/model"
)

// Session はウォレット接続状態と接続すべきネットワークをまとめたもの。
// 各ユースケースへ明示的に渡す。
type Session struct {
	provider      Provider
	expectedChain *big.Int
}

func NewSession(provider Provider, expectedChain *big.Int) *Session {
	return &Session{
		provider:      provider,
		expectedChain: new(big.Int).Set(expectedChain),
	}
}

func (s *Session) Provider() Provider {
	return s.provider
}

func (s *Session) ExpectedChainID() *big.Int {
	return new(big.Int).Set(s.expectedChain)
}

func (s *Session) Address() (common.Address, bool) {
	return s.provider.Address()
}

// DisplayAddress は接続中なら短縮アドレス、未接続なら空文字を返す
func (s *Session) DisplayAddress() string {
	addr, ok := s.provider.Address()
	if !ok {
		return ""
	}
	return model.ShortAddress(addr.Hex())
}

// IsAddress は接続中のアドレスが addr と一致するか (大文字小文字は区別しない)
func (s *Session) IsAddress(addr string) bool {
	connected, ok := s.provider.Address()
	if !ok {
		return false
	}
	return strings.EqualFold(connected.Hex(), addr)
}

// NetworkMismatch はウォレットのネットワークが想定と異なるかを返す。未接続の場合は不一致としない。
func (s *Session) NetworkMismatch(ctx context.Context) (bool, error) {
	if _, ok := s.provider.Address(); !ok {
		return false, nil
	}
	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		return false, err
	}
	return chainID.Cmp(s.expectedChain) != 0, nil
}

// SwitchNetwork は想定ネットワークへの切替をウォレットに依頼する
func (s *Session) SwitchNetwork(ctx context.Context) error {
	return s.provider.SwitchChain(ctx, s.ExpectedChainID())
}

func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return s.provider.TransactOpts(ctx)
}
