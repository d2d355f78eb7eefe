package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultDirective is used when a pipeline run is triggered without one.
const DefaultDirective = "Generate the automatic restock recommendation for tomorrow."

// WorkflowResult is the outcome of one full pipeline run.
type WorkflowResult struct {
	Directive         string
	InventoryAnalysis string
	SalesAnalysis     string
	WeatherAnalysis   string
	Summary           string
	Items             []ExtractedItem
	TotalItems        int
	TotalCost         decimal.Decimal
}

// Coordinator runs the advisory pipeline: inventory, sales, and weather
// advisors strictly in that order, then the extraction step over the combined
// analyses. The ordering is load-bearing: the synthesis prompt embeds the
// three texts in inventory -> sales -> weather order.
type Coordinator struct {
	inventory Advisor
	sales     Advisor
	weather   Advisor
	extractor Extractor
	log       zerolog.Logger
}

func NewCoordinator(inventory, sales, weather Advisor, extractor Extractor, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		inventory: inventory,
		sales:     sales,
		weather:   weather,
		extractor: extractor,
		log:       log,
	}
}

const synthesisTemplate = `The following are the analysis results from each advisor:

[Inventory Analysis]
%s

[Sales Analysis]
%s

[Weather Analysis]
%s

Combine all of the analyses above into the optimal restock order. For each
product include the current stock situation, the expected sales volume, the
weather impact, and the final recommended order quantity.`

// Run executes the full pipeline. Any advisor failure aborts the run: nothing
// is persisted and the error surfaces to the caller. Extraction never fails;
// a malformed completion degrades to a zero-item result.
func (c *Coordinator) Run(ctx context.Context, directive string) (*WorkflowResult, error) {
	if directive == "" {
		directive = DefaultDirective
	}

	c.log.Info().Str("directive", directive).Msg("starting restock pipeline")

	inventoryReport, err := c.inventory.Analyze(ctx, directive)
	if err != nil {
		return nil, fmt.Errorf("inventory analysis failed: %w", err)
	}
	c.log.Debug().Str("role", inventoryReport.Role).Msg("inventory analysis complete")

	salesReport, err := c.sales.Analyze(ctx, directive)
	if err != nil {
		return nil, fmt.Errorf("sales analysis failed: %w", err)
	}
	c.log.Debug().Str("role", salesReport.Role).Msg("sales analysis complete")

	weatherReport, err := c.weather.Analyze(ctx, directive)
	if err != nil {
		return nil, fmt.Errorf("weather analysis failed: %w", err)
	}
	c.log.Debug().Str("role", weatherReport.Role).Msg("weather analysis complete")

	synthesis := fmt.Sprintf(synthesisTemplate,
		inventoryReport.Analysis, salesReport.Analysis, weatherReport.Analysis)

	extraction := c.extractor.Extract(ctx, synthesis)

	c.log.Info().
		Int("total_items", extraction.TotalItems).
		Str("total_cost", extraction.TotalCost.StringFixed(0)).
		Msg("restock pipeline complete")

	return &WorkflowResult{
		Directive:         directive,
		InventoryAnalysis: inventoryReport.Analysis,
		SalesAnalysis:     salesReport.Analysis,
		WeatherAnalysis:   weatherReport.Analysis,
		Summary:           extraction.Summary,
		Items:             extraction.Items,
		TotalItems:        extraction.TotalItems,
		TotalCost:         extraction.TotalCost,
	}, nil
}
