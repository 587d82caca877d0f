package model

// ShortAddress はヘッダー表示用に先頭4文字と末尾4文字を "..." で繋ぐ
func ShortAddress(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

// ShortOfferor はオファー一覧用に先頭5文字と末尾5文字を表示する
func ShortOfferor(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:5] + "..." + addr[len(addr)-5:]
}
