package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompletion struct {
	reply     string
	err       error
	gotSystem string
	gotUser   string
	calls     int
}

func (f *fakeCompletion) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	return f.reply, f.err
}

func newTestExtractor(reply string, err error) (Extractor, *fakeCompletion) {
	llm := &fakeCompletion{reply: reply, err: err}
	return NewOrderExtractor(llm, zerolog.Nop()), llm
}

func TestExtractFencedJSON(t *testing.T) {
	reply := "Here is the order list:\n```json\n" + `{
		"summary": "Restock rice balls before the rain.",
		"order_items": [
			{
				"product_name": "rice ball",
				"current_stock": 5,
				"safe_stock": 20,
				"order_quantity": 30,
				"unit_price": 1500,
				"total_cost": 45000,
				"reason": "below safe stock",
				"priority": "high"
			}
		]
	}` + "\n```\nLet me know if you need anything else."

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "rice ball", item.ProductName)
	assert.Equal(t, 5, item.CurrentStock)
	assert.Equal(t, 20, item.SafeStock)
	assert.Equal(t, 30, item.OrderQuantity)
	assert.Equal(t, "45000", item.TotalCost.StringFixed(0))
	assert.Equal(t, "high", item.Priority)
	assert.Equal(t, 1, result.TotalItems)
	assert.Equal(t, "45000", result.TotalCost.StringFixed(0))
	assert.Equal(t, "Restock rice balls before the rain.", result.Summary)
}

func TestExtractBareJSON(t *testing.T) {
	reply := `{"summary": "ok", "order_items": [
		{"product_name": "milk", "order_quantity": 10, "unit_price": 2500}
	]}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	assert.Equal(t, "milk", result.Items[0].ProductName)
	assert.Equal(t, "25000", result.Items[0].TotalCost.StringFixed(0))
}

func TestExtractMalformedResponseDegrades(t *testing.T) {
	extractor, _ := newTestExtractor("I could not produce JSON, sorry.", nil)
	result := extractor.Extract(context.Background(), "analyses")

	assert.Equal(t, degradedParseSummary, result.Summary)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalItems)
	assert.True(t, result.TotalCost.IsZero())
}

func TestExtractCompletionFailureDegrades(t *testing.T) {
	extractor, _ := newTestExtractor("", errors.New("api down"))
	result := extractor.Extract(context.Background(), "analyses")

	assert.Equal(t, degradedCompletionSummary, result.Summary)
	assert.Empty(t, result.Items)
	assert.True(t, result.TotalCost.IsZero())
}

func TestExtractNumericStringCoercion(t *testing.T) {
	reply := `{"summary": "ok", "order_items": [
		{"product_name": "bread", "current_stock": "8", "safe_stock": "20.0",
		 "order_quantity": "30.0", "unit_price": "1500", "priority": "HIGH"}
	]}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, 8, item.CurrentStock)
	assert.Equal(t, 20, item.SafeStock)
	assert.Equal(t, 30, item.OrderQuantity)
	assert.Equal(t, "45000", item.TotalCost.StringFixed(0))
	assert.Equal(t, "high", item.Priority)
}

func TestExtractSentinelAndMissingFieldsDefault(t *testing.T) {
	reply := `{"summary": "ok", "order_items": [
		{"product_name": "umbrella", "current_stock": "N/A", "safe_stock": null,
		 "order_quantity": 10, "unit_price": "None"}
	]}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, defaultCurrentStock, item.CurrentStock)
	assert.Equal(t, defaultSafeStock, item.SafeStock)
	assert.Equal(t, "1000", item.UnitPrice.StringFixed(0))
	assert.Equal(t, "10000", item.TotalCost.StringFixed(0))
	assert.Equal(t, defaultReason, item.Reason)
	assert.Equal(t, "medium", item.Priority)
}

func TestExtractNegativeNumbersDefault(t *testing.T) {
	reply := `{"summary": "ok", "order_items": [
		{"product_name": "snacks", "current_stock": -3, "order_quantity": 5, "unit_price": -100}
	]}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	assert.Equal(t, defaultCurrentStock, result.Items[0].CurrentStock)
	assert.Equal(t, "1000", result.Items[0].UnitPrice.StringFixed(0))
}

func TestExtractDropsZeroQuantityItems(t *testing.T) {
	reply := `{"summary": "ok", "order_items": [
		{"product_name": "soft drink", "order_quantity": 0, "unit_price": 1500},
		{"product_name": "missing quantity", "unit_price": 1500},
		{"product_name": "cup noodles", "order_quantity": 25, "unit_price": 1200}
	]}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	assert.Equal(t, "cup noodles", result.Items[0].ProductName)
	assert.Equal(t, 1, result.TotalItems)
	assert.Equal(t, "30000", result.TotalCost.StringFixed(0))
}

func TestExtractRecomputesTotalCost(t *testing.T) {
	// The model-supplied total is off by an order of magnitude on purpose.
	reply := `{"summary": "ok", "order_items": [
		{"product_name": "milk", "order_quantity": 12, "unit_price": 2500, "total_cost": 999}
	]}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	assert.Equal(t, "30000", result.Items[0].TotalCost.StringFixed(0))
	assert.Equal(t, "30000", result.TotalCost.StringFixed(0))
}

func TestExtractTruncatesLongReason(t *testing.T) {
	longReason := strings.Repeat("r", maxReasonLength+50)
	reply := `{"summary": "ok", "order_items": [
		{"product_name": "bread", "order_quantity": 5, "unit_price": 2000, "reason": "` + longReason + `"}
	]}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	require.Len(t, result.Items, 1)
	assert.Len(t, []rune(result.Items[0].Reason), maxReasonLength)
}

func TestExtractEmptySummaryGetsFallback(t *testing.T) {
	reply := `{"order_items": []}`

	extractor, _ := newTestExtractor(reply, nil)
	result := extractor.Extract(context.Background(), "analyses")

	assert.NotEmpty(t, result.Summary)
	assert.Empty(t, result.Items)
}

func TestExtractSynthesisPassedToPrompt(t *testing.T) {
	extractor, llm := newTestExtractor(`{"summary": "ok", "order_items": []}`, nil)
	extractor.Extract(context.Background(), "combined advisory analyses")

	assert.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.gotUser, "combined advisory analyses")
	assert.Contains(t, llm.gotSystem, "order_items")
}
