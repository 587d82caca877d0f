package collection

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"storefront-onchain/metrics"
	"storefront-onchain/model"
)

// 一度に列挙する所有トークンの上限
const MaxOwnedTokens = 200

// Gateway はNFTコレクションコントラクトとの連携を担当
type Gateway interface {
	// GetOwnedNFTs は指定アドレスが所有するコレクションのNFTを取得
	GetOwnedNFTs(ctx context.Context, owner common.Address) ([]*model.OwnedNFT, error)

	// GetNFT は任意のERC721コントラクトのトークンメタデータを取得
	GetNFT(ctx context.Context, assetContract common.Address, tokenID *big.Int) (model.Asset, error)

	GetContractAddress() string
}

// Fetcher はトークンURIからメタデータを取得する
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*Metadata, error)
}

// CollectionGateway はERC721 Enumerable コントラクトとの連携実装
type CollectionGateway struct {
	backend         ethereum.ContractCaller
	contractAddress common.Address
	contractABI     abi.ABI
	fetcher         Fetcher
	assets          *cache.Cache
}

// NewCollectionGateway は新しいコレクションゲートウェイを作成
func NewCollectionGateway(backend ethereum.ContractCaller, contractAddr string, fetcher Fetcher, ttl time.Duration) (*CollectionGateway, error) {
	parsedABI, err := abi.JSON(strings.NewReader(ERC721ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC721 ABI: %w", err)
	}

	contractAddress := common.HexToAddress(contractAddr)
	if contractAddress == (common.Address{}) {
		zap.L().Warn("Collection contract address appears to be zero address")
	}

	zap.L().Info("Initialized collection gateway", zap.String("contract", contractAddress.Hex()))

	return &CollectionGateway{
		backend:         backend,
		contractAddress: contractAddress,
		contractABI:     parsedABI,
		fetcher:         fetcher,
		assets:          cache.New(ttl, 2*ttl),
	}, nil
}

func (g *CollectionGateway) GetContractAddress() string {
	return g.contractAddress.Hex()
}

func (g *CollectionGateway) call(ctx context.Context, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	defer metrics.ObserveCall("collection", method, time.Now())

	data, err := g.contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	result, err := g.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := g.contractABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}

// GetOwnedNFTs は balanceOf と tokenOfOwnerByIndex で所有トークンを列挙
func (g *CollectionGateway) GetOwnedNFTs(ctx context.Context, owner common.Address) ([]*model.OwnedNFT, error) {
	out, err := g.call(ctx, g.contractAddress, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result %T", out[0])
	}

	count := balance.Int64()
	if count > MaxOwnedTokens {
		zap.L().Warn("Owned token count exceeds limit",
			zap.String("owner", owner.Hex()),
			zap.Int64("balance", count))
		count = MaxOwnedTokens
	}

	nfts := make([]*model.OwnedNFT, 0, count)
	for i := int64(0); i < count; i++ {
		out, err := g.call(ctx, g.contractAddress, "tokenOfOwnerByIndex", owner, big.NewInt(i))
		if err != nil {
			return nil, err
		}
		tokenID, ok := out[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("unexpected tokenOfOwnerByIndex result %T", out[0])
		}

		asset, err := g.GetNFT(ctx, g.contractAddress, tokenID)
		if err != nil {
			// メタデータが取れなくてもトークン自体は選択できるようにする
			zap.L().Warn("Failed to resolve owned NFT metadata",
				zap.String("token_id", tokenID.String()),
				zap.Error(err))
			asset = model.Asset{TokenID: tokenID}
		}

		nfts = append(nfts, &model.OwnedNFT{
			Metadata: asset,
			Owner:    owner.Hex(),
		})
	}
	return nfts, nil
}

// GetNFT は tokenURI を読んでメタデータを解決する
func (g *CollectionGateway) GetNFT(ctx context.Context, assetContract common.Address, tokenID *big.Int) (model.Asset, error) {
	key := assetContract.Hex() + ":" + tokenID.String()
	if v, found := g.assets.Get(key); found {
		return v.(model.Asset), nil
	}

	asset := model.Asset{TokenID: new(big.Int).Set(tokenID)}

	out, err := g.call(ctx, assetContract, "tokenURI", tokenID)
	if err != nil {
		return asset, err
	}
	uri, ok := out[0].(string)
	if !ok {
		return asset, fmt.Errorf("unexpected tokenURI result %T", out[0])
	}

	md, err := g.fetcher.Fetch(ctx, uri)
	if err != nil {
		return asset, err
	}
	md.toAsset(&asset)

	g.assets.SetDefault(key, asset)
	return asset, nil
}
