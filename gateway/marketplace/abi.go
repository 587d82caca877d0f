package marketplace

// MarketplaceABI はマーケットプレイスコントラクト (Direct / English Auction) のABIのうち使用する部分
const MarketplaceABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "listingId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "offeror", "type": "address"},
      {"indexed": true, "internalType": "enum IMarketplace.ListingType", "name": "listingType", "type": "uint8"},
      {"indexed": false, "internalType": "uint256", "name": "quantityWanted", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "totalOfferAmount", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "currency", "type": "address"}
    ],
    "name": "NewOffer",
    "type": "event"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "name": "listings",
    "outputs": [
      {"internalType": "uint256", "name": "listingId", "type": "uint256"},
      {"internalType": "address", "name": "tokenOwner", "type": "address"},
      {"internalType": "address", "name": "assetContract", "type": "address"},
      {"internalType": "uint256", "name": "tokenId", "type": "uint256"},
      {"internalType": "uint256", "name": "startTime", "type": "uint256"},
      {"internalType": "uint256", "name": "endTime", "type": "uint256"},
      {"internalType": "uint256", "name": "quantity", "type": "uint256"},
      {"internalType": "address", "name": "currency", "type": "address"},
      {"internalType": "uint256", "name": "reservePricePerToken", "type": "uint256"},
      {"internalType": "uint256", "name": "buyoutPricePerToken", "type": "uint256"},
      {"internalType": "enum IMarketplace.TokenType", "name": "tokenType", "type": "uint8"},
      {"internalType": "enum IMarketplace.ListingType", "name": "listingType", "type": "uint8"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "totalListings",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "name": "winningBid",
    "outputs": [
      {"internalType": "uint256", "name": "listingId", "type": "uint256"},
      {"internalType": "address", "name": "offeror", "type": "address"},
      {"internalType": "uint256", "name": "quantityWanted", "type": "uint256"},
      {"internalType": "address", "name": "currency", "type": "address"},
      {"internalType": "uint256", "name": "pricePerToken", "type": "uint256"},
      {"internalType": "uint256", "name": "expirationTimestamp", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "", "type": "uint256"},
      {"internalType": "address", "name": "", "type": "address"}
    ],
    "name": "offers",
    "outputs": [
      {"internalType": "uint256", "name": "listingId", "type": "uint256"},
      {"internalType": "address", "name": "offeror", "type": "address"},
      {"internalType": "uint256", "name": "quantityWanted", "type": "uint256"},
      {"internalType": "address", "name": "currency", "type": "address"},
      {"internalType": "uint256", "name": "pricePerToken", "type": "uint256"},
      {"internalType": "uint256", "name": "expirationTimestamp", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "bidBufferBps",
    "outputs": [{"internalType": "uint64", "name": "", "type": "uint64"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "components": [
          {"internalType": "address", "name": "assetContract", "type": "address"},
          {"internalType": "uint256", "name": "tokenId", "type": "uint256"},
          {"internalType": "uint256", "name": "startTime", "type": "uint256"},
          {"internalType": "uint256", "name": "secondsUntilEndTime", "type": "uint256"},
          {"internalType": "uint256", "name": "quantityToList", "type": "uint256"},
          {"internalType": "address", "name": "currencyToAccept", "type": "address"},
          {"internalType": "uint256", "name": "reservePricePerToken", "type": "uint256"},
          {"internalType": "uint256", "name": "buyoutPricePerToken", "type": "uint256"},
          {"internalType": "enum IMarketplace.ListingType", "name": "listingType", "type": "uint8"}
        ],
        "internalType": "struct IMarketplace.ListingParameters",
        "name": "_params",
        "type": "tuple"
      }
    ],
    "name": "createListing",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "_listingId", "type": "uint256"},
      {"internalType": "uint256", "name": "_quantityWanted", "type": "uint256"},
      {"internalType": "address", "name": "_currency", "type": "address"},
      {"internalType": "uint256", "name": "_pricePerToken", "type": "uint256"},
      {"internalType": "uint256", "name": "_expirationTimestamp", "type": "uint256"}
    ],
    "name": "offer",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "_listingId", "type": "uint256"},
      {"internalType": "address", "name": "_buyFor", "type": "address"},
      {"internalType": "uint256", "name": "_quantityToBuy", "type": "uint256"},
      {"internalType": "address", "name": "_currency", "type": "address"},
      {"internalType": "uint256", "name": "_totalPrice", "type": "uint256"}
    ],
    "name": "buy",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "_listingId", "type": "uint256"},
      {"internalType": "address", "name": "_offeror", "type": "address"},
      {"internalType": "address", "name": "_currency", "type": "address"},
      {"internalType": "uint256", "name": "_pricePerToken", "type": "uint256"}
    ],
    "name": "acceptOffer",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

// ERC20ABI は通貨表示に使う ERC20 の一部
const ERC20ABI = `[
  {
    "inputs": [],
    "name": "symbol",
    "outputs": [{"internalType": "string", "name": "", "type": "string"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "decimals",
    "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
    "stateMutability": "view",
    "type": "function"
  }
]`
