package service

import (
	"bytes"
	"fmt"
	"time"

	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// DashboardStats summarizes the inventory for the landing page.
type DashboardStats struct {
	TotalProducts    int64            `json:"total_products"`
	TotalVariants    int64            `json:"total_variants"`
	DraftStockIns    int64            `json:"draft_stock_ins"`
	DraftStockOuts   int64            `json:"draft_stock_outs"`
	LowStockVariants []LowStockEntry `json:"low_stock_variants"`
	StockBySKU       map[string]int  `json:"stock_by_sku"`
}

type LowStockEntry struct {
	ProductName  string `json:"product_name"`
	VariantName  string `json:"variant_name"`
	SKU          string `json:"sku"`
	StockCurrent int    `json:"stock_current"`
}

type ReportService interface {
	Dashboard() (*DashboardStats, error)
	// ExportStock renders current stock levels as an xlsx workbook.
	ExportStock() (*bytes.Buffer, string, error)
}

type reportService struct {
	db                *gorm.DB
	productRepo       repository.ProductRepository
	lowStockThreshold int
}

func NewReportService(db *gorm.DB, productRepo repository.ProductRepository, lowStockThreshold int) ReportService {
	return &reportService{db: db, productRepo: productRepo, lowStockThreshold: lowStockThreshold}
}

func (s *reportService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{StockBySKU: make(map[string]int)}

	if err := s.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.ProductVariant{}).Count(&stats.TotalVariants).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.StockInRecord{}).
		Where("status = ?", model.StatusDraft).Count(&stats.DraftStockIns).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.StockOutRecord{}).
		Where("status = ?", model.StatusDraft).Count(&stats.DraftStockOuts).Error; err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		for _, v := range p.Variants {
			stats.StockBySKU[v.SKU] = v.StockCurrent
			if v.StockCurrent <= s.lowStockThreshold {
				stats.LowStockVariants = append(stats.LowStockVariants, LowStockEntry{
					ProductName:  p.Name,
					VariantName:  v.Name,
					SKU:          v.SKU,
					StockCurrent: v.StockCurrent,
				})
			}
		}
	}
	return stats, nil
}

func (s *reportService) ExportStock() (*bytes.Buffer, string, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Stock"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Product", "Product SKU", "Variant", "Variant SKU", "Stock"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	}

	row := 2
	for _, p := range products {
		for _, v := range p.Variants {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.SKU)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), v.Name)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), v.SKU)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), v.StockCurrent)
			row++
		}
	}

	f.SetColWidth(sheet, "A", "D", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("stock-%s.xlsx", time.Now().Format("20060102-150405"))
	return buf, filename, nil
}
