package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/openinventory/inventory-admin/internal/config"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/repository"
)

// monthKeyFormat buckets timestamps into "Jan 06" style month labels.
const monthKeyFormat = "Jan 06"

// lowStockThreshold is the boundary between the In Stock and Low Stock buckets.
const lowStockThreshold = 5

type MonthlyAmount struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StockBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type SoldCount struct {
	Name string `json:"name"`
	Sold int    `json:"sold"`
}

type CategoryRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

type StockSnapshot struct {
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Sold      int    `json:"sold"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type DashboardSummary struct {
	TotalProducts     int     `json:"total_products"`
	InventoryValue    float64 `json:"inventory_value"`
	LowStockCount     int     `json:"low_stock_count"`
	TotalSalesRevenue float64 `json:"total_sales_revenue"`
}

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// DashboardData is the full set of derived series for one dashboard render.
type DashboardData struct {
	Summary            DashboardSummary  `json:"summary"`
	Currency           Currency          `json:"currency"`
	SalesOverTime      []MonthlyAmount   `json:"sales_over_time"`
	ProductsByCategory []CategoryCount   `json:"products_by_category"`
	StockStatus        []StockBucket     `json:"stock_status"`
	TopSelling         []SoldCount       `json:"top_selling"`
	RevenueByCategory  []CategoryRevenue `json:"revenue_by_category"`
	StockVsSold        []StockSnapshot   `json:"stock_vs_sold"`
	AdditionsOverTime  []MonthlyCount    `json:"additions_over_time"`
	LowStockOverTime   []MonthlyCount    `json:"low_stock_over_time"`
	RecentActivities   []model.Activity  `json:"recent_activities"`
}

// DashboardService reads one snapshot of the catalog and the recent
// activity window and folds it into chart-ready series.
type DashboardService interface {
	GetDashboardData(ctx context.Context, caller model.CallerIdentity) (DashboardData, error)
	ListRecentActivities(ctx context.Context, limit int32) ([]model.Activity, error)
}

type dashboardService struct {
	cfg          config.Dashboard
	productRepo  repository.ProductRepository
	activityRepo repository.ActivityRepository
}

func NewDashboardService(
	cfg config.Dashboard,
	productRepo repository.ProductRepository,
	activityRepo repository.ActivityRepository,
) DashboardService {
	return &dashboardService{
		cfg:          cfg,
		productRepo:  productRepo,
		activityRepo: activityRepo,
	}
}

func (s *dashboardService) GetDashboardData(ctx context.Context, caller model.CallerIdentity) (DashboardData, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return DashboardData{}, fmt.Errorf("product repository list all: %w", err)
	}

	activities, err := s.activityRepo.ListRecent(ctx, s.cfg.ActivityWindow)
	if err != nil {
		return DashboardData{}, fmt.Errorf("activity repository list recent: %w", err)
	}

	return BuildDashboard(products, activities, caller.CurrencyCode()), nil
}

func (s *dashboardService) ListRecentActivities(ctx context.Context, limit int32) ([]model.Activity, error) {
	if limit <= 0 || limit > s.cfg.ActivityWindow {
		limit = s.cfg.ActivityWindow
	}

	activities, err := s.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("activity repository list recent: %w", err)
	}

	return activities, nil
}

// BuildDashboard derives every dashboard series from one snapshot. It is a
// pure function: same snapshot in, identical series out.
func BuildDashboard(products []model.Product, activities []model.Activity, currencyCode string) DashboardData {
	sales := filterByAction(activities, model.ActionSale)

	return DashboardData{
		Summary:            buildSummary(products, sales),
		Currency:           Currency{Code: currencyCode, Symbol: CurrencySymbol(currencyCode)},
		SalesOverTime:      buildSalesOverTime(sales),
		ProductsByCategory: buildProductsByCategory(products),
		StockStatus:        buildStockStatus(products),
		TopSelling:         buildTopSelling(products),
		RevenueByCategory:  buildRevenueByCategory(sales),
		StockVsSold:        buildStockVsSold(products),
		AdditionsOverTime:  buildAdditionsOverTime(activities),
		LowStockOverTime:   buildLowStockOverTime(products),
		RecentActivities:   activities,
	}
}

// CurrencySymbol maps a currency code to its display symbol, defaulting to "$".
func CurrencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "INR":
		return "₹"
	case "JPY":
		return "¥"
	default:
		return "$"
	}
}

func buildSummary(products []model.Product, sales []model.Activity) DashboardSummary {
	var summary DashboardSummary
	summary.TotalProducts = len(products)

	for _, p := range products {
		summary.InventoryValue += p.Price * float64(p.Stock)
		if p.Stock < lowStockThreshold {
			summary.LowStockCount++
		}
	}

	for _, a := range sales {
		summary.TotalSalesRevenue += amountOf(a)
	}

	return summary
}

// buildSalesOverTime sums SALE amounts per calendar month. Months appear in
// first-occurrence order over the activity window, not chronologically.
func buildSalesOverTime(sales []model.Activity) []MonthlyAmount {
	totals := map[string]float64{}
	order := make([]string, 0)

	for _, a := range sales {
		month := monthKey(a.CreatedAt)
		if _, seen := totals[month]; !seen {
			order = append(order, month)
		}
		totals[month] += amountOf(a)
	}

	series := make([]MonthlyAmount, 0, len(order))
	for _, month := range order {
		series = append(series, MonthlyAmount{Name: month, Sales: totals[month]})
	}
	return series
}

func buildProductsByCategory(products []model.Product) []CategoryCount {
	counts := map[string]int{}
	order := make([]string, 0)

	for _, p := range products {
		if _, seen := counts[p.Category]; !seen {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}

	series := make([]CategoryCount, 0, len(order))
	for _, category := range order {
		series = append(series, CategoryCount{Name: category, Count: counts[category]})
	}
	return series
}

// buildStockStatus places every product in exactly one of the three buckets,
// so the bucket values always sum to the product count.
func buildStockStatus(products []model.Product) []StockBucket {
	var inStock, lowStock, outOfStock int
	for _, p := range products {
		switch {
		case p.Stock >= lowStockThreshold:
			inStock++
		case p.Stock > 0:
			lowStock++
		default:
			outOfStock++
		}
	}

	return []StockBucket{
		{Name: "In Stock", Value: inStock},
		{Name: "Low Stock", Value: lowStock},
		{Name: "Out of Stock", Value: outOfStock},
	}
}

func buildTopSelling(products []model.Product) []SoldCount {
	ranked := make([]model.Product, len(products))
	copy(ranked, products)

	// Stable keeps the snapshot order for equal sold counts.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sold > ranked[j].Sold
	})

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	series := make([]SoldCount, 0, len(ranked))
	for _, p := range ranked {
		series = append(series, SoldCount{Name: truncate(p.Name, 12), Sold: p.Sold})
	}
	return series
}

func buildRevenueByCategory(sales []model.Activity) []CategoryRevenue {
	totals := map[string]float64{}
	order := make([]string, 0)

	for _, a := range sales {
		category := "General"
		if a.Category != nil && *a.Category != "" {
			category = *a.Category
		}
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] += amountOf(a)
	}

	series := make([]CategoryRevenue, 0, len(order))
	for _, category := range order {
		series = append(series, CategoryRevenue{Name: category, Revenue: totals[category]})
	}
	return series
}

func buildStockVsSold(products []model.Product) []StockSnapshot {
	n := len(products)
	if n > 8 {
		n = 8
	}

	series := make([]StockSnapshot, 0, n)
	for _, p := range products[:n] {
		series = append(series, StockSnapshot{
			Name:      truncate(p.Name, 10),
			Remaining: p.Stock,
			Sold:      p.Sold,
		})
	}
	return series
}

func buildAdditionsOverTime(activities []model.Activity) []MonthlyCount {
	return monthlyCounts(filterByAction(activities, model.ActionCreate), func(a model.Activity) time.Time {
		return a.CreatedAt
	})
}

// buildLowStockOverTime groups currently-low-stock products by the month the
// product itself was created, not by activity timestamps.
func buildLowStockOverTime(products []model.Product) []MonthlyCount {
	counts := map[string]int{}
	order := make([]string, 0)

	for _, p := range products {
		if p.Stock >= lowStockThreshold {
			continue
		}
		month := monthKey(p.CreatedAt)
		if _, seen := counts[month]; !seen {
			order = append(order, month)
		}
		counts[month]++
	}

	series := make([]MonthlyCount, 0, len(order))
	for _, month := range order {
		series = append(series, MonthlyCount{Month: month, Count: counts[month]})
	}
	return series
}

func monthlyCounts(activities []model.Activity, at func(model.Activity) time.Time) []MonthlyCount {
	counts := map[string]int{}
	order := make([]string, 0)

	for _, a := range activities {
		month := monthKey(at(a))
		if _, seen := counts[month]; !seen {
			order = append(order, month)
		}
		counts[month]++
	}

	series := make([]MonthlyCount, 0, len(order))
	for _, month := range order {
		series = append(series, MonthlyCount{Month: month, Count: counts[month]})
	}
	return series
}

func filterByAction(activities []model.Activity, action model.ActivityAction) []model.Activity {
	filtered := make([]model.Activity, 0)
	for _, a := range activities {
		if a.Action == action {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func amountOf(a model.Activity) float64 {
	if a.Amount == nil {
		return 0
	}
	return *a.Amount
}

func monthKey(t time.Time) string {
	return t.Format(monthKeyFormat)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
