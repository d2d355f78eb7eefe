package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"store_order/internal/models"
	"store_order/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Responses carry at most this many row errors; the full count is reported.
const maxReportedErrors = 10

// ImportReport summarizes one CSV import.
type ImportReport struct {
	RowsProcessed int      `json:"rows_processed"`
	Errors        []string `json:"errors"`
	TotalErrors   int      `json:"total_errors"`
}

type IngestService interface {
	ImportSalesCSV(r io.Reader) (*ImportReport, error)
	ImportInventoryCSV(r io.Reader) (*ImportReport, error)
}

type ingestService struct {
	salesRepo     repository.SalesRepository
	inventoryRepo repository.InventoryRepository
	log           zerolog.Logger
}

func NewIngestService(salesRepo repository.SalesRepository, inventoryRepo repository.InventoryRepository, log zerolog.Logger) IngestService {
	return &ingestService{salesRepo: salesRepo, inventoryRepo: inventoryRepo, log: log}
}

func (s *ingestService) ImportSalesCSV(r io.Reader) (*ImportReport, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	var rowErrors []string
	for i, row := range rows {
		record := mapRow(header, row)
		rowNum := i + 1

		productName := record["product_name"]
		quantityStr := record["quantity_sold"]
		priceStr := record["sale_price"]
		dateStr := record["sale_date"]
		if productName == "" || quantityStr == "" || priceStr == "" || dateStr == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing required field (product_name, quantity_sold, sale_price, sale_date)", rowNum))
			continue
		}

		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid quantity_sold %q", rowNum, quantityStr))
			continue
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid sale_price %q", rowNum, priceStr))
			continue
		}
		saleDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid sale_date %q (expected YYYY-MM-DD)", rowNum, dateStr))
			continue
		}

		sale := models.Sale{
			ProductName:  productName,
			QuantitySold: quantity,
			SalePrice:    price,
			SaleDate:     saleDate,
			DayOfWeek:    saleDate.Weekday().String(),
		}
		if err := s.salesRepo.Create(&sale); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		report.RowsProcessed++
	}

	finishReport(report, rowErrors)
	s.log.Info().Int("rows", report.RowsProcessed).Int("errors", report.TotalErrors).Msg("sales CSV imported")
	return report, nil
}

func (s *ingestService) ImportInventoryCSV(r io.Reader) (*ImportReport, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	var rowErrors []string
	for i, row := range rows {
		record := mapRow(header, row)
		rowNum := i + 1

		productName := record["product_name"]
		quantityStr := record["quantity"]
		if productName == "" || quantityStr == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing required field (product_name, quantity)", rowNum))
			continue
		}

		quantity, err := strconv.Atoi(quantityStr)
		if err != nil || quantity < 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid quantity %q", rowNum, quantityStr))
			continue
		}

		inv := &models.Inventory{
			ProductName: productName,
			Category:    record["category"],
			Quantity:    quantity,
			SafeStock:   20,
		}
		if safeStockStr := record["safe_stock"]; safeStockStr != "" {
			if safeStock, err := strconv.Atoi(safeStockStr); err == nil && safeStock >= 0 {
				inv.SafeStock = safeStock
			}
		}
		if priceStr := record["unit_price"]; priceStr != "" {
			if price, err := decimal.NewFromString(priceStr); err == nil {
				inv.UnitPrice = price
			}
		}
		if expiryStr := record["expiry_date"]; expiryStr != "" {
			if expiry, err := time.Parse("2006-01-02", expiryStr); err == nil {
				inv.ExpiryDate = &expiry
			}
		}

		if err := s.inventoryRepo.Upsert(inv); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		report.RowsProcessed++
	}

	finishReport(report, rowErrors)
	s.log.Info().Int("rows", report.RowsProcessed).Int("errors", report.TotalErrors).Msg("inventory CSV imported")
	return report, nil
}

// readCSV reads all rows, stripping a UTF-8 BOM from the header if present.
func readCSV(r io.Reader) ([][]string, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("CSV file is empty")
	}

	header := make([]string, len(all[0]))
	for i, col := range all[0] {
		col = strings.TrimPrefix(col, "\uFEFF")
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return all[1:], header, nil
}

func mapRow(header []string, row []string) map[string]string {
	record := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(row) {
			record[col] = strings.TrimSpace(row[i])
		}
	}
	return record
}

func finishReport(report *ImportReport, rowErrors []string) {
	report.TotalErrors = len(rowErrors)
	if len(rowErrors) > maxReportedErrors {
		rowErrors = rowErrors[:maxReportedErrors]
	}
	report.Errors = rowErrors
	if report.Errors == nil {
		report.Errors = []string{}
	}
}
