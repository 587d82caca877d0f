package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"storefront-onchain/model"
)

var (
	ErrNoKey        = errors.New("no wallet key configured")
	ErrUnknownChain = errors.New("chain is not configured in the wallet")
)

// Provider はウォレット（接続・切断・アドレス・ネットワーク切替・署名）を抽象化する
type Provider interface {
	Connect(ctx context.Context) (common.Address, error)
	Disconnect()
	Address() (common.Address, bool)
	ChainID(ctx context.Context) (*big.Int, error)
	SwitchChain(ctx context.Context, chainID *big.Int) error
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// ChainIDReader は接続先ネットワークのチェーンIDを返す (ethclient.Client が満たす)
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// KeyProvider は秘密鍵で署名するウォレット実装
type KeyProvider struct {
	mu        sync.RWMutex
	key       *ecdsa.PrivateKey
	connected bool
	active    ChainIDReader
	// 接続時と切替時に読んだチェーンID
	chainID  *big.Int
	networks map[string]ChainIDReader
}

// NewKeyProvider は16進の秘密鍵から Provider を作る。鍵が空の場合は Connect が失敗する。
func NewKeyProvider(privateKeyHex string, active ChainIDReader) (*KeyProvider, error) {
	p := &KeyProvider{
		active:   active,
		networks: map[string]ChainIDReader{},
	}

	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if privateKeyHex != "" {
		key, err := crypto.HexToECDSA(privateKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet private key: %w", err)
		}
		p.key = key
	}
	return p, nil
}

// AddNetwork は切替先として使えるネットワークを登録する
func (p *KeyProvider) AddNetwork(chainID *big.Int, backend ChainIDReader) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.networks[chainID.String()] = backend
}

func (p *KeyProvider) Connect(ctx context.Context) (common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key == nil {
		return common.Address{}, ErrNoKey
	}
	chainID, err := p.active.ChainID(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read chain id: %w", err)
	}
	p.chainID = chainID
	p.connected = true

	addr := crypto.PubkeyToAddress(p.key.PublicKey)
	zap.L().Info("Wallet connected", zap.String("address", addr.Hex()))
	return addr, nil
}

func (p *KeyProvider) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
	p.chainID = nil
	zap.L().Info("Wallet disconnected")
}

func (p *KeyProvider) Address() (common.Address, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.connected || p.key == nil {
		return common.Address{}, false
	}
	return crypto.PubkeyToAddress(p.key.PublicKey), true
}

// ChainID は接続中ネットワークのチェーンIDを返す。RPCは呼ばない
func (p *KeyProvider) ChainID(ctx context.Context) (*big.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.connected || p.chainID == nil {
		return nil, model.ErrNotConnected
	}
	return new(big.Int).Set(p.chainID), nil
}

// SwitchChain は登録済みネットワークに切り替える
func (p *KeyProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	backend, ok := p.networks[chainID.String()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChain, chainID.String())
	}
	current, err := backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read chain id: %w", err)
	}
	p.active = backend
	p.chainID = current
	zap.L().Info("Wallet switched network", zap.String("chain_id", chainID.String()))
	return nil
}

// TransactOpts は現在のネットワーク向けの署名オプションを返す
func (p *KeyProvider) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if _, ok := p.Address(); !ok {
		return nil, model.ErrNotConnected
	}

	chainID, err := p.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	p.mu.RLock()
	key := p.key
	p.mu.RUnlock()

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}
