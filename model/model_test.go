package model

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		want    string
		wantErr bool
	}{
		{name: "whole", amount: "1", want: "1000000000000000000"},
		{name: "with trailing zero", amount: "1.0", want: "1000000000000000000"},
		{name: "fraction", amount: "0.05", want: "50000000000000000"},
		{name: "surrounding spaces", amount: " 2.5 ", want: "2500000000000000000"},
		{name: "one wei", amount: "0.000000000000000001", want: "1"},
		{name: "too many decimals", amount: "0.0000000000000000001", wantErr: true},
		{name: "empty", amount: "", wantErr: true},
		{name: "not a number", amount: "abc", wantErr: true},
		{name: "negative", amount: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEther(tt.amount)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatEther(t *testing.T) {
	one, _ := new(big.Int).SetString("1000000000000000000", 10)
	half, _ := new(big.Int).SetString("500000000000000000", 10)

	assert.Equal(t, "1.0", FormatEther(one))
	assert.Equal(t, "0.5", FormatEther(half))
	assert.Equal(t, "0.0", FormatEther(big.NewInt(0)))
	assert.Equal(t, "0.0", FormatEther(nil))
	assert.Equal(t, "1.5", FormatUnits(big.NewInt(1500000), 6))
}

func TestShortAddress(t *testing.T) {
	addrs := []string{
		"0xABCD000000000000000000000000000000001234",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	}
	for _, addr := range addrs {
		got := ShortAddress(addr)
		assert.Equal(t, addr[:4]+"..."+addr[len(addr)-4:], got)
		assert.True(t, strings.HasPrefix(got, addr[:4]))
		assert.True(t, strings.HasSuffix(got, addr[len(addr)-4:]))
		assert.Len(t, got, 11)
	}

	assert.Equal(t, "0xAB...1234", ShortAddress("0xABCD000000000000000000000000000000001234"))
	assert.Equal(t, "0x123", ShortAddress("0x123"))
}

func TestShortOfferor(t *testing.T) {
	assert.Equal(t, "0x5aA...BeAed", ShortOfferor("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
}

func TestParseListingType(t *testing.T) {
	lt, ok := ParseListingType("directListing")
	assert.True(t, ok)
	assert.Equal(t, ListingTypeDirect, lt)

	lt, ok = ParseListingType("auctionListing")
	assert.True(t, ok)
	assert.Equal(t, ListingTypeAuction, lt)

	_, ok = ParseListingType("")
	assert.False(t, ok)
}

func TestListing_Ended(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := &Listing{EndTime: now.Add(time.Hour)}
	assert.False(t, l.Ended(now))
	assert.True(t, l.Ended(now.Add(time.Hour)))

	assert.False(t, (&Listing{}).Ended(now))
}
