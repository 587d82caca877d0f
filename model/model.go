package model

import (
	"math/big"
	"time"
)

// ListingType はマーケットプレイスコントラクトの出品種別 (0: Direct, 1: Auction)
type ListingType uint8

const (
	ListingTypeDirect  ListingType = 0
	ListingTypeAuction ListingType = 1
)

func (t ListingType) String() string {
	switch t {
	case ListingTypeDirect:
		return "Direct Listing"
	case ListingTypeAuction:
		return "Auction Listing"
	default:
		return "Unknown"
	}
}

// ParseListingType はフォームの listingType 値を変換する
func ParseListingType(v string) (ListingType, bool) {
	switch v {
	case "directListing":
		return ListingTypeDirect, true
	case "auctionListing":
		return ListingTypeAuction, true
	default:
		return 0, false
	}
}

// ListingDuration は出品期間 (1週間固定)
const ListingDuration = 7 * 24 * time.Hour

// NativeTokenAddress はネイティブ通貨を表す疑似アドレス
const NativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// CurrencyValue は通貨建ての金額と表示用の値
type CurrencyValue struct {
	Value        *big.Int `json:"value"`
	DisplayValue string   `json:"display_value"`
	Symbol       string   `json:"symbol"`
	Decimals     uint8    `json:"decimals"`
}

// IsZero は金額がゼロかどうか
func (c CurrencyValue) IsZero() bool {
	return c.Value == nil || c.Value.Sign() == 0
}

// Asset はNFTのメタデータ
type Asset struct {
	TokenID     *big.Int `json:"token_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
}

// Listing はコントラクト上の出品情報
type Listing struct {
	ID                  *big.Int      `json:"id"`
	Type                ListingType   `json:"type"`
	SellerAddress       string        `json:"seller_address"`
	AssetContract       string        `json:"asset_contract"`
	TokenID             *big.Int      `json:"token_id"`
	Asset               Asset         `json:"asset"`
	Quantity            *big.Int      `json:"quantity"`
	Currency            string        `json:"currency"`
	BuyoutPrice         *big.Int      `json:"buyout_price"`
	ReservePrice        *big.Int      `json:"reserve_price"`
	BuyoutCurrencyValue CurrencyValue `json:"buyout_currency_value"`
	StartTime           time.Time     `json:"start_time"`
	EndTime             time.Time     `json:"end_time"`
}

func (l *Listing) IsDirect() bool {
	return l.Type == ListingTypeDirect
}

func (l *Listing) IsAuction() bool {
	return l.Type == ListingTypeAuction
}

// Ended はオークション終了時刻を過ぎているか
func (l *Listing) Ended(now time.Time) bool {
	return !l.EndTime.IsZero() && !now.Before(l.EndTime)
}

// Offer は出品に対するオファー（オークションでは入札）
type Offer struct {
	ListingID        *big.Int      `json:"listing_id"`
	Offeror          string        `json:"offeror"`
	ListingType      ListingType   `json:"listing_type"`
	Quantity         *big.Int      `json:"quantity"`
	Currency         string        `json:"currency"`
	TotalOfferAmount *big.Int      `json:"total_offer_amount"`
	Display          CurrencyValue `json:"display"`
	BlockNo          uint64        `json:"block_number"`
}

// OwnedNFT は接続中アドレスが保有するNFT
type OwnedNFT struct {
	Metadata Asset  `json:"metadata"`
	Owner    string `json:"owner"`
}

// DirectListingParams はDirect出品の作成パラメータ
type DirectListingParams struct {
	AssetContract string
	TokenID       *big.Int
	Currency      string
	StartTime     time.Time
	Duration      time.Duration
	Quantity      *big.Int
	BuyoutPrice   *big.Int
}

// AuctionListingParams はオークション出品の作成パラメータ
type AuctionListingParams struct {
	AssetContract string
	TokenID       *big.Int
	Currency      string
	StartTime     time.Time
	Duration      time.Duration
	Quantity      *big.Int
	BuyoutPrice   *big.Int
	ReservePrice  *big.Int
}

// TxReceipt は送信済みトランザクションの結果
type TxReceipt struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
}
