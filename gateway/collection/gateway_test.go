package collection

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

var (
	collectionAddr = common.HexToAddress("0x2000000000000000000000000000000000000002")
	otherAddr      = common.HexToAddress("0x7000000000000000000000000000000000000007")
	ownerAddr      = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

type fakeCaller struct {
	responses map[string][]byte
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{responses: map[string][]byte{}}
}

func (f *fakeCaller) on(t *testing.T, to common.Address, method string, args []interface{}, outputs ...interface{}) {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(ERC721ABI))
	require.NoError(t, err)
	data, err := parsed.Pack(method, args...)
	require.NoError(t, err)
	out, err := parsed.Methods[method].Outputs.Pack(outputs...)
	require.NoError(t, err)
	f.responses[to.Hex()+hex.EncodeToString(data)] = out
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if out, ok := f.responses[msg.To.Hex()+hex.EncodeToString(msg.Data)]; ok {
		return out, nil
	}
	return nil, errors.New("execution reverted")
}

type fakeFetcher struct {
	metadata map[string]*Metadata
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context, uri string) (*Metadata, error) {
	f.calls++
	if md, ok := f.metadata[uri]; ok {
		copied := *md
		return &copied, nil
	}
	return nil, fmt.Errorf("metadata %s not found", uri)
}

func newTestGateway(t *testing.T, caller *fakeCaller, fetcher Fetcher) *CollectionGateway {
	t.Helper()
	gw, err := NewCollectionGateway(caller, collectionAddr.Hex(), fetcher, time.Minute)
	require.NoError(t, err)
	return gw
}

func TestResolveURI(t *testing.T) {
	f := NewMetadataFetcher("https://gateway.example/ipfs", 0, time.Second)

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "ipfs scheme", uri: "ipfs://" + testCID + "/0", want: "https://gateway.example/ipfs/" + testCID + "/0"},
		{name: "ipfs scheme with ipfs path", uri: "ipfs://ipfs/" + testCID, want: "https://gateway.example/ipfs/" + testCID},
		{name: "bare cid", uri: testCID + "/metadata.json", want: "https://gateway.example/ipfs/" + testCID + "/metadata.json"},
		{name: "http url", uri: "https://example.com/nft/1.json", want: "https://example.com/nft/1.json"},
		{name: "gateway url stays", uri: "https://ipfs.io/ipfs/" + testCID, want: "https://ipfs.io/ipfs/" + testCID},
		{name: "unknown", uri: "not-a-uri", want: "not-a-uri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ResolveURI(tt.uri))
		})
	}
}

func TestMetadataFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nft/1.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"name":"Cool Cat","description":"a cat","image":"ipfs://%s/cat.png"}`, testCID)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewMetadataFetcher("https://gateway.example/ipfs/", 0, time.Second)

	md, err := f.Fetch(context.Background(), server.URL+"/nft/1.json")
	require.NoError(t, err)
	assert.Equal(t, "Cool Cat", md.Name)
	assert.Equal(t, "a cat", md.Description)
	assert.Equal(t, "https://gateway.example/ipfs/"+testCID+"/cat.png", md.Image)

	_, err = f.Fetch(context.Background(), server.URL+"/nft/404.json")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestCollectionGateway_GetNFT(t *testing.T) {
	caller := newFakeCaller()
	caller.on(t, otherAddr, "tokenURI", []interface{}{big.NewInt(3)}, "ipfs://token/3")
	fetcher := &fakeFetcher{metadata: map[string]*Metadata{
		"ipfs://token/3": {Name: "Three", Description: "third", Image: "https://img/3.png"},
	}}
	gw := newTestGateway(t, caller, fetcher)

	asset, err := gw.GetNFT(context.Background(), otherAddr, big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, "3", asset.TokenID.String())
	assert.Equal(t, "Three", asset.Name)
	assert.Equal(t, "https://img/3.png", asset.Image)

	// 2回目はキャッシュから返る
	_, err = gw.GetNFT(context.Background(), otherAddr, big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCollectionGateway_GetNFT_Error(t *testing.T) {
	gw := newTestGateway(t, newFakeCaller(), &fakeFetcher{})

	asset, err := gw.GetNFT(context.Background(), collectionAddr, big.NewInt(1))
	assert.Error(t, err)
	assert.Equal(t, "1", asset.TokenID.String())
}

func TestCollectionGateway_GetOwnedNFTs(t *testing.T) {
	caller := newFakeCaller()
	caller.on(t, collectionAddr, "balanceOf", []interface{}{ownerAddr}, big.NewInt(2))
	caller.on(t, collectionAddr, "tokenOfOwnerByIndex", []interface{}{ownerAddr, big.NewInt(0)}, big.NewInt(5))
	caller.on(t, collectionAddr, "tokenOfOwnerByIndex", []interface{}{ownerAddr, big.NewInt(1)}, big.NewInt(9))
	caller.on(t, collectionAddr, "tokenURI", []interface{}{big.NewInt(5)}, "ipfs://token/5")
	caller.on(t, collectionAddr, "tokenURI", []interface{}{big.NewInt(9)}, "ipfs://token/9")
	fetcher := &fakeFetcher{metadata: map[string]*Metadata{
		"ipfs://token/5": {Name: "Five"},
	}}
	gw := newTestGateway(t, caller, fetcher)

	nfts, err := gw.GetOwnedNFTs(context.Background(), ownerAddr)
	require.NoError(t, err)
	require.Len(t, nfts, 2)

	assert.Equal(t, "5", nfts[0].Metadata.TokenID.String())
	assert.Equal(t, "Five", nfts[0].Metadata.Name)
	assert.Equal(t, ownerAddr.Hex(), nfts[0].Owner)

	// メタデータ取得に失敗したトークンもIDだけで残る
	assert.Equal(t, "9", nfts[1].Metadata.TokenID.String())
	assert.Empty(t, nfts[1].Metadata.Name)
}

func TestCollectionGateway_GetOwnedNFTs_Empty(t *testing.T) {
	caller := newFakeCaller()
	caller.on(t, collectionAddr, "balanceOf", []interface{}{ownerAddr}, big.NewInt(0))
	gw := newTestGateway(t, caller, &fakeFetcher{})

	nfts, err := gw.GetOwnedNFTs(context.Background(), ownerAddr)
	require.NoError(t, err)
	assert.Empty(t, nfts)
}

func TestCollectionGateway_GetOwnedNFTs_RPCError(t *testing.T) {
	gw := newTestGateway(t, newFakeCaller(), &fakeFetcher{})

	_, err := gw.GetOwnedNFTs(context.Background(), ownerAddr)
	assert.Error(t, err)
}
