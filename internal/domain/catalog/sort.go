package catalog

import "strings"

// ArticleSort is a storefront sort key.
type ArticleSort string

const (
	SortByName      ArticleSort = "name"
	SortByPriceLow  ArticleSort = "price_low"
	SortByPriceHigh ArticleSort = "price_high"
	SortByNewest    ArticleSort = "newest"
	// SortByBestSelling is admin-only: lifetime sales, highest first.
	SortByBestSelling ArticleSort = "best_selling"
)

// ParseArticleSort maps a query value to a sort key, defaulting to SortByName.
func ParseArticleSort(s string) ArticleSort {
	switch ArticleSort(strings.ToLower(strings.TrimSpace(s))) {
	case SortByPriceLow:
		return SortByPriceLow
	case SortByPriceHigh:
		return SortByPriceHigh
	case SortByNewest:
		return SortByNewest
	default:
		return SortByName
	}
}

// ParseAdminArticleSort accepts the storefront keys plus SortByBestSelling,
// which is also the default.
func ParseAdminArticleSort(s string) ArticleSort {
	switch key := ArticleSort(strings.ToLower(strings.TrimSpace(s))); key {
	case SortByName, SortByPriceLow, SortByPriceHigh, SortByNewest:
		return key
	}
	return SortByBestSelling
}

// OrderClause returns a total SQL ordering; id breaks ties so pages are stable.
func (s ArticleSort) OrderClause() string {
	switch s {
	case SortByPriceLow:
		return "articles.price ASC, articles.id ASC"
	case SortByPriceHigh:
		return "articles.price DESC, articles.id ASC"
	case SortByNewest:
		return "articles.created_at DESC, articles.id ASC"
	case SortByBestSelling:
		return "articles.number_of_sales_all_time DESC, articles.name ASC, articles.id ASC"
	default:
		return "articles.name ASC, articles.id ASC"
	}
}
