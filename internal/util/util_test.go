package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{name: "comma grouped", input: "1,000,000", want: 1000000, wantOK: true},
		{name: "plain", input: "900000", want: 900000, wantOK: true},
		{name: "negative", input: "-12,345", want: -12345, wantOK: true},
		{name: "empty", input: "", want: 0, wantOK: true},
		{name: "no value marker", input: "-", want: 0, wantOK: true},
		{name: "padded", input: "  2,500 ", want: 2500, wantOK: true},
		{name: "garbage", input: "N/A", want: 0, wantOK: false},
		{name: "decimal", input: "12.5", want: 0, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseAmount(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "1.5조", FormatAmount(1_500_000_000_000))
	assert.Equal(t, "3.2억", FormatAmount(320_000_000))
	assert.Equal(t, "-3.2억", FormatAmount(-320_000_000))
	assert.Equal(t, "1.2만", FormatAmount(12_000))
	assert.Equal(t, "9,999", FormatAmount(9_999))
	assert.Equal(t, "-1,234,567", GroupThousands(-1234567))
	assert.Equal(t, "100", GroupThousands(100))
}

func TestToEok(t *testing.T) {
	assert.Equal(t, 1.5, ToEok(150_000_000))
	assert.Equal(t, 0.0, ToEok(0))
	assert.Equal(t, -2.0, ToEok(-200_000_000))
}

func TestNormalizeCompanyName(t *testing.T) {
	assert.Equal(t, "삼성전자", NormalizeCompanyName("삼성전자(주)"))
	assert.Equal(t, "삼성전자", NormalizeCompanyName("주식회사 삼성 전자"))
	assert.Equal(t, "samsungelectronicsco", NormalizeCompanyName("SAMSUNG ELECTRONICS CO.,"))
	assert.True(t, LooksLikeCorpCode("00126380"))
	assert.False(t, LooksLikeCorpCode("005930"))
	assert.True(t, LooksLikeStockCode("005930"))
}
