package marketplace

// nativeSymbols はチェーンIDごとのネイティブ通貨シンボル
var nativeSymbols = map[int64]string{
	1:        "ETH",
	5:        "ETH",
	10:       "ETH",
	56:       "BNB",
	137:      "MATIC",
	8453:     "ETH",
	42161:    "ETH",
	43114:    "AVAX",
	80001:    "MATIC",
	11155111: "ETH",
}

// NativeSymbol はチェーンのネイティブ通貨シンボルを返す (不明なチェーンは ETH)
func NativeSymbol(chainID int64) string {
	if symbol, ok := nativeSymbols[chainID]; ok {
		return symbol
	}
	return "ETH"
}
