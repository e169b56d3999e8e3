package engine

import "strings"

// currencyAliases maps the descriptive currency titles used by the
// directions listing onto the short identifiers used by the rate feed.
// The two APIs never agreed on a taxonomy, so the mapping is maintained
// by hand
var currencyAliases = map[string]string{
	"Tether TRC20 USDT":                 "USDTTRC20",
	"Bitcoin BTC":                       "BTC",
	"Ethereum ETH":                      "ETH",
	"TRON TRX":                          "TRX",
	"Dogecoin DOGE":                     "DOGE",
	"Toncoin TON":                       "TON",
	"Notcoin NOT":                       "NOT",
	"USDCoin ERC20 USDC":                "USDCERC20",
	"Zelle USD":                         "ZELLEUSD",
	"Банковский счет Wire Transfer USD": "WIREUSD",
	"Банковская карта RUB":              "CARDRUB",
	"СБП RUB":                           "SBPRUB",
	"Сбербанк RUB":                      "SBERRUB",
	"Т-Банк RUB":                        "TCSBRUB",
	"Альфа-Банк RUB":                    "ACRUB",
}

// NormalizeCurrency maps a directions-API currency title to its rate feed
// identifier. Titles missing from the alias table fall back to their first
// whitespace-delimited token. Never fails; an empty title yields ""
func NormalizeCurrency(title string) string {
	if id, ok := currencyAliases[title]; ok {
		return id
	}

	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}
