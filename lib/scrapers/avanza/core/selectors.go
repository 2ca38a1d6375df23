package core

import (
	"fmt"
	"strings"
)

const (
	HomePage     = "/mina-sidor/kontooversikt.html"
	AccountsPage = "/mina-sidor/min-profil/mina-konton.html"
	TelegramPage = "/placera/telegram.html"
	SearchPath   = "/ab/sok/inline"
)

// AccountPage is the overview page scoped to a single account.
func AccountPage(accountId string) string {
	return fmt.Sprintf("/mina-sidor/kontooversikt.%s.html", accountId)
}

// Class is a class attribute exactly as the site renders it, multiple class
// names are separated by spaces ("SText fRight tRight bold positive").
type Class string

// Selector returns the css selector matching elements named tag that carry
// every class in c, an empty tag matches any element.
func (c Class) Selector(tag string) string {
	names := strings.Fields(string(c))
	if len(names) == 0 {
		return tag
	}
	return tag + "." + strings.Join(names, ".")
}

// Attr locates an attribute on the first element matching Tag and Class.
type Attr struct {
	Tag   string `json:"tag" yaml:"tag"`
	Class Class  `json:"class" yaml:"class"`
	Name  string `json:"name" yaml:"name"`
}

// Selectors is every piece of markup the scraper depends on, when the site
// changes its markup this table is what gets updated.
type Selectors struct {
	TotalBalance   Class `json:"total_balance" yaml:"total_balance"`
	BuyingPower    Class `json:"buying_power" yaml:"buying_power"`
	TotalValue     Class `json:"total_value" yaml:"total_value"`
	GrowthPositive Class `json:"growth_positive" yaml:"growth_positive"`
	GrowthNegative Class `json:"growth_negative" yaml:"growth_negative"`

	// <a> elements on AccountsPage
	AccountLink Class `json:"account_link" yaml:"account_link"`
	// <li> elements on TelegramPage, rows alternate between the classes
	TelegramRows []Class `json:"telegram_rows" yaml:"telegram_rows"`

	// <a> per search hit
	SearchLink Class `json:"search_link" yaml:"search_link"`
	// <table> per search hit, parallel to SearchLink
	SearchTable Class `json:"search_table" yaml:"search_table"`
	// <td> preceding the price element inside SearchTable
	SearchPriceCell Class `json:"search_price_cell" yaml:"search_price_cell"`

	PushToken Attr `json:"push_token" yaml:"push_token"`

	LatestPrice  Class `json:"latest_price" yaml:"latest_price"`
	HighestPrice Class `json:"highest_price" yaml:"highest_price"`
	LowestPrice  Class `json:"lowest_price" yaml:"lowest_price"`
	QuoteUpdated Class `json:"quote_updated" yaml:"quote_updated"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		TotalBalance:   "totalBalance",
		BuyingPower:    "buyingPower",
		TotalValue:     "totalValue",
		GrowthPositive: "SText fRight tRight bold positive",
		GrowthNegative: "SText fRight tRight bold negative",

		AccountLink:  "link",
		TelegramRows: []Class{"oddItem", "evenItem"},

		SearchLink:      "srchResLink",
		SearchTable:     "noHighlight pad",
		SearchPriceCell: "tRight upperCase bold XSText noPaddingRight bottomAlign",

		PushToken: Attr{
			Tag:   "div",
			Class: "loginWrapper",
			Name:  "data-push_subscriptionid",
		},

		LatestPrice:  "pushBox roundCorners3",
		HighestPrice: "highestPrice SText bold",
		LowestPrice:  "lowestPrice SText bold",
		QuoteUpdated: "updated SText bold",
	}
}
