package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"store_order/internal/repository"
)

// CompletionClient is the contract to the LLM completion service.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AdvisoryReport is the free-text output of one advisor for one pipeline run.
// It lives only for the duration of the run and is never persisted on its own.
type AdvisoryReport struct {
	Role     string
	Analysis string
}

// Advisor produces one advisory signal for the restock pipeline.
type Advisor interface {
	Role() string
	Analyze(ctx context.Context, directive string) (*AdvisoryReport, error)
}

// Inventory advisor

type inventoryAdvisor struct {
	llm           CompletionClient
	inventoryRepo repository.InventoryRepository
}

func NewInventoryAdvisor(llm CompletionClient, inventoryRepo repository.InventoryRepository) Advisor {
	return &inventoryAdvisor{llm: llm, inventoryRepo: inventoryRepo}
}

func (a *inventoryAdvisor) Role() string {
	return "inventory status analysis"
}

const inventorySystemPrompt = `You are a convenience store inventory specialist.

Your role:
1. Assess the current stock level of every product.
2. Identify products that have fallen below their safe stock level.
3. Flag products close to their expiry date.
4. Point out overstocked products that should not be reordered.

Always base your analysis on the data provided. For each understocked product
include the current stock, the safe stock level, and the shortfall.`

func (a *inventoryAdvisor) Analyze(ctx context.Context, directive string) (*AdvisoryReport, error) {
	records, err := a.inventoryRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("inventory advisor: %w", err)
	}
	lowStock, err := a.inventoryRepo.GetLowStock()
	if err != nil {
		return nil, fmt.Errorf("inventory advisor: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(directive)
	sb.WriteString("\n\nCurrent inventory:\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "- %s (%s): stock %d, safe stock %d, unit price %s\n",
			rec.ProductName, rec.Category, rec.Quantity, rec.SafeStock, rec.UnitPrice.StringFixed(0))
	}
	sb.WriteString("\nProducts below safe stock:\n")
	if len(lowStock) == 0 {
		sb.WriteString("- none\n")
	}
	for _, rec := range lowStock {
		fmt.Fprintf(&sb, "- %s: stock %d, safe stock %d, shortfall %d\n",
			rec.ProductName, rec.Quantity, rec.SafeStock, rec.SafeStock-rec.Quantity)
	}

	analysis, err := a.llm.Complete(ctx, inventorySystemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("inventory advisor: %w", err)
	}
	return &AdvisoryReport{Role: a.Role(), Analysis: analysis}, nil
}

// Sales advisor

type salesAdvisor struct {
	llm       CompletionClient
	salesRepo repository.SalesRepository
	window    int
}

func NewSalesAdvisor(llm CompletionClient, salesRepo repository.SalesRepository) Advisor {
	return &salesAdvisor{llm: llm, salesRepo: salesRepo, window: 7}
}

func (a *salesAdvisor) Role() string {
	return "sales trend analysis"
}

const salesSystemPrompt = `You are a convenience store sales analyst.

Your role:
1. Analyze recent sales volume per product.
2. Identify products with rising or falling demand.
3. Estimate expected demand for the next few days from the recent averages.

Always base your analysis on the data provided and state the expected daily
sales volume for each notable product.`

func (a *salesAdvisor) Analyze(ctx context.Context, directive string) (*AdvisoryReport, error) {
	summaries, err := a.salesRepo.GetRecentSummaries(a.window)
	if err != nil {
		return nil, fmt.Errorf("sales advisor: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(directive)
	fmt.Fprintf(&sb, "\n\nSales totals over the last %d days:\n", a.window)
	if len(summaries) == 0 {
		sb.WriteString("- no sales recorded\n")
	}
	for _, s := range summaries {
		fmt.Fprintf(&sb, "- %s: %d units sold across %d days, revenue %s\n",
			s.ProductName, s.TotalQuantity, s.DaysWithSales, s.TotalRevenue.StringFixed(0))
	}

	analysis, err := a.llm.Complete(ctx, salesSystemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("sales advisor: %w", err)
	}
	return &AdvisoryReport{Role: a.Role(), Analysis: analysis}, nil
}

// Weather advisor

type weatherAdvisor struct {
	llm CompletionClient
	now func() time.Time
}

func NewWeatherAdvisor(llm CompletionClient) Advisor {
	return &weatherAdvisor{llm: llm, now: time.Now}
}

func (a *weatherAdvisor) Role() string {
	return "weather impact analysis"
}

const weatherSystemPrompt = `You are a demand forecaster who adjusts convenience store orders for weather.

Your role:
1. Read the forecast for the next few days.
2. Identify products whose demand moves with the weather (umbrellas and rain
   gear on rainy days, ice cream and cold drinks in heat, hot food in cold).
3. Recommend demand adjustments per affected product.

Quantify the expected change where possible, e.g. "umbrella demand roughly 8x
normal on a rainy day".`

// DailyForecast is a single day of the (simulated) weather feed.
type DailyForecast struct {
	Date              string `json:"date"`
	Condition         string `json:"condition"`
	TemperatureC      int    `json:"temperature_c"`
	PrecipitationProb int    `json:"precipitation_prob"`
	Humidity          int    `json:"humidity"`
}

// Forecast returns a 3-day outlook. A live weather API would slot in here;
// the simulated feed mirrors the upstream data source: rain expected tomorrow.
func (a *weatherAdvisor) Forecast(days int) []DailyForecast {
	forecast := make([]DailyForecast, 0, days)
	for i := 0; i < days; i++ {
		day := DailyForecast{
			Date:              a.now().AddDate(0, 0, i).Format("2006-01-02"),
			Condition:         "clear",
			TemperatureC:      15 + i,
			PrecipitationProb: 20,
			Humidity:          50,
		}
		if i == 1 {
			day.Condition = "rain"
			day.PrecipitationProb = 80
			day.Humidity = 75
		}
		forecast = append(forecast, day)
	}
	return forecast
}

func (a *weatherAdvisor) Analyze(ctx context.Context, directive string) (*AdvisoryReport, error) {
	var sb strings.Builder
	sb.WriteString(directive)
	sb.WriteString("\n\nForecast for the next 3 days:\n")
	for _, day := range a.Forecast(3) {
		fmt.Fprintf(&sb, "- %s: %s, %d°C, precipitation %d%%, humidity %d%%\n",
			day.Date, day.Condition, day.TemperatureC, day.PrecipitationProb, day.Humidity)
	}

	analysis, err := a.llm.Complete(ctx, weatherSystemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("weather advisor: %w", err)
	}
	return &AdvisoryReport{Role: a.Role(), Analysis: analysis}, nil
}
