// internal/models/analytics.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyQuantity is the number of units of one item sold on one calendar day.
type DailyQuantity struct {
	Day time.Time `json:"day"`
	Qty int       `json:"qty"`
}

// SaleLine is a single sold line, used by the heuristic strategies.
type SaleLine struct {
	ItemName string    `json:"itemName"`
	Qty      int       `json:"qty"`
	SoldAt   time.Time `json:"soldAt"`
}

type TrendDirection string

const (
	TrendingUp      TrendDirection = "TRENDING_UP"
	FlatOrDeclining TrendDirection = "FLAT_OR_DECLINING"
)

type Trend struct {
	ItemName  string         `json:"itemName"`
	Slope     float64        `json:"slope"`
	Points    int            `json:"points"`
	Direction TrendDirection `json:"direction"`
	Message   string         `json:"message"`
}

type Strategy string

const (
	StrategyTrend          Strategy = "trend"
	StrategyTopSeller      Strategy = "top_seller"
	StrategyWeekendHeavy   Strategy = "weekend_heavy"
	StrategyMorningHeavy   Strategy = "morning_heavy"
	StrategyUnderperformer Strategy = "underperformer"
)

type Recommendation struct {
	ItemName   string   `json:"itemName"`
	Strategy   Strategy `json:"strategy"`
	Confidence float64  `json:"confidence"`
	Message    string   `json:"message"`
}

type PaymentTotal struct {
	ModePayment PaymentMode     `json:"modePayment"`
	Total       decimal.Decimal `json:"total"`
	BillCount   int             `json:"billCount"`
}

type DailyTotal struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

type ItemSales struct {
	ItemName string          `json:"itemName"`
	Qty      int             `json:"qty"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type SalesOverview struct {
	FranchiseID   string          `json:"franchiseId"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	BillCount     int             `json:"billCount"`
	AverageBill   decimal.Decimal `json:"averageBill"`
	PaymentTotals []PaymentTotal  `json:"paymentTotals"`
	DailyTotals   []DailyTotal    `json:"dailyTotals"`
	TopItems      []ItemSales     `json:"topItems"`
}

const salesOverviewCachePrefix = "sales:overview:"

// SalesOverviewCacheKey is the cache key of one overview window.
func SalesOverviewCacheKey(franchiseID, from, to string) string {
	return SalesOverviewCachePrefix(franchiseID) + from + ":" + to
}

// SalesOverviewCachePrefix matches every cached overview of a franchise.
func SalesOverviewCachePrefix(franchiseID string) string {
	return salesOverviewCachePrefix + franchiseID + ":"
}
