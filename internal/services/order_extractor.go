package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"store_order/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Coercion defaults for numeric item fields that arrive missing or malformed.
const (
	defaultCurrentStock  = 0
	defaultSafeStock     = 20
	defaultUnitPrice     = 1000.0
	defaultOrderQuantity = 0
	defaultProductName   = "unspecified"
	defaultReason        = "restock required"
	maxReasonLength      = 500
)

// ExtractedItem is one validated order line produced by the extractor.
type ExtractedItem struct {
	ProductName   string
	CurrentStock  int
	SafeStock     int
	OrderQuantity int
	UnitPrice     decimal.Decimal
	TotalCost     decimal.Decimal
	Reason        string
	Priority      string
}

// ExtractionResult is always produced, even when the model output is garbage:
// a parse or completion failure degrades to a zero-item result with a summary.
type ExtractionResult struct {
	Summary    string
	Items      []ExtractedItem
	TotalItems int
	TotalCost  decimal.Decimal
}

// Extractor turns the combined advisory analyses into a structured order list.
type Extractor interface {
	Extract(ctx context.Context, synthesis string) *ExtractionResult
}

type orderExtractor struct {
	llm CompletionClient
	log zerolog.Logger
}

func NewOrderExtractor(llm CompletionClient, log zerolog.Logger) Extractor {
	return &orderExtractor{llm: llm, log: log}
}

const extractionSystemPrompt = `You are a convenience store restock optimization expert.

Combine the inventory, sales, and weather analyses into a structured order item list.

IMPORTANT: every numeric field must contain a number only. Never output strings
like "N/A", "unknown", or "TBD" in a numeric field.

Respond with a single JSON object in exactly this format:
` + "```json" + `
{
  "summary": "overall order summary (2-3 sentences)",
  "order_items": [
    {
      "product_name": "product",
      "current_stock": 0,
      "safe_stock": 20,
      "order_quantity": 50,
      "unit_price": 1500,
      "total_cost": 75000,
      "reason": "reason for ordering (1-2 sentences)",
      "priority": "high"
    }
  ]
}
` + "```" + `

Numeric field rules:
- current_stock: integer >= 0 (use 0 when unknown)
- safe_stock: integer >= 0 (use 20 when unknown)
- order_quantity: integer >= 1 (0 means do not order)
- unit_price: number >= 0
- total_cost: order_quantity x unit_price

Order quantity guidelines:
- understocked products: 150-200% of safe stock
- trending products: 7-day daily average plus 20-30%
- weather-sensitive products: as recommended by the weather analysis
- well-stocked products: do not order

Priority:
- high: stock is 0 or below 50% of safe stock
- medium: 50-80% of safe stock
- low: 80% of safe stock or above

Output valid JSON only. All numbers must be integers or floats.`

const degradedParseSummary = "An error occurred while generating the order data."
const degradedCompletionSummary = "Order generation failed; no items were produced."

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

func (e *orderExtractor) Extract(ctx context.Context, synthesis string) *ExtractionResult {
	userPrompt := synthesis + "\n\nGenerate the structured order item list as JSON based on the analyses above.\n" +
		"Prioritize understocked products, trending products, and weather-affected products.\n" +
		"Exclude products with sufficient stock.\n\n" +
		"Once more: numeric fields must contain numbers only, never strings like \"N/A\"."

	raw, err := e.llm.Complete(ctx, extractionSystemPrompt, userPrompt)
	if err != nil {
		e.log.Error().Err(err).Msg("order extraction completion failed")
		return degradedResult(degradedCompletionSummary)
	}

	payload, err := parseOrderPayload(raw)
	if err != nil {
		e.log.Error().Err(err).Str("raw", truncate(raw, 500)).Msg("order extraction JSON parse failed")
		return degradedResult(degradedParseSummary)
	}

	summary := payload.Summary
	if summary == "" {
		summary = "Restock order item list."
	}

	items := make([]ExtractedItem, 0, len(payload.OrderItems))
	total := decimal.Zero
	for _, rawItem := range payload.OrderItems {
		item := coerceItem(rawItem)
		// quantity 0 is a deliberate "no order needed" signal, not an error
		if item.OrderQuantity <= 0 {
			continue
		}
		items = append(items, item)
		total = total.Add(item.TotalCost)
	}

	return &ExtractionResult{
		Summary:    summary,
		Items:      items,
		TotalItems: len(items),
		TotalCost:  total,
	}
}

type rawOrderPayload struct {
	Summary    string                   `json:"summary"`
	OrderItems []map[string]interface{} `json:"order_items"`
}

// parseOrderPayload locates a fenced JSON block if present, otherwise treats
// the whole response as the payload.
func parseOrderPayload(raw string) (*rawOrderPayload, error) {
	jsonStr := strings.TrimSpace(raw)
	if match := fencedJSONPattern.FindStringSubmatch(raw); len(match) > 1 {
		jsonStr = match[1]
	}

	var payload rawOrderPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func coerceItem(raw map[string]interface{}) ExtractedItem {
	quantity := safeInt(raw["order_quantity"], defaultOrderQuantity)
	unitPrice := safeFloat(raw["unit_price"], defaultUnitPrice)

	item := ExtractedItem{
		ProductName:   safeString(raw["product_name"], defaultProductName),
		CurrentStock:  safeInt(raw["current_stock"], defaultCurrentStock),
		SafeStock:     safeInt(raw["safe_stock"], defaultSafeStock),
		OrderQuantity: quantity,
		UnitPrice:     decimal.NewFromFloat(unitPrice),
		Reason:        truncate(safeString(raw["reason"], defaultReason), maxReasonLength),
		Priority:      normalizePriority(raw["priority"]),
	}

	// total_cost is always recomputed; the model-supplied value is discarded
	item.TotalCost = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.OrderQuantity)))
	return item
}

// numericSentinels are placeholder values models emit despite instructions.
var numericSentinels = map[string]bool{
	"":     true,
	"N/A":  true,
	"n/a":  true,
	"null": true,
	"None": true,
}

// safeInt coerces a loosely-typed numeric field to an int, tolerating float
// representations like "10.0". Sentinels and unparseable values fall back to
// the default.
func safeInt(value interface{}, def int) int {
	f, ok := parseNumeric(value)
	if !ok || f < 0 {
		return def
	}
	return int(f)
}

func safeFloat(value interface{}, def float64) float64 {
	f, ok := parseNumeric(value)
	if !ok || f < 0 {
		return def
	}
	return f
}

func parseNumeric(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(v)
		if numericSentinels[trimmed] {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func safeString(value interface{}, def string) string {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func normalizePriority(value interface{}) string {
	s, _ := value.(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(models.PriorityHigh):
		return string(models.PriorityHigh)
	case string(models.PriorityLow):
		return string(models.PriorityLow)
	default:
		return string(models.PriorityMedium)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func degradedResult(summary string) *ExtractionResult {
	return &ExtractionResult{
		Summary:    summary,
		Items:      []ExtractedItem{},
		TotalItems: 0,
		TotalCost:  decimal.Zero,
	}
}
