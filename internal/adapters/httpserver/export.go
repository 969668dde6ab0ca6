package httpserver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/papermintx/stylemarket/internal/adapters/messaging/whatsapp"
	"github.com/papermintx/stylemarket/internal/domain"
)

// handleExportXLSX streams a two-sheet workbook: the full catalog and the
// recent order intents.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}

	var products []domain.Product
	page := 1
	for {
		list, total, err := s.products.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 200})
		if err != nil {
			http.Error(w, "err", 500)
			return
		}
		products = append(products, list...)
		if len(products) >= int(total) || len(list) == 0 || page > 50 {
			break
		}
		page++
	}
	orders, _, err := s.checkout.List(r.Context(), 1, 500)
	if err != nil {
		http.Error(w, "err", 500)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const prodSheet = "Products"
	f.SetSheetName("Sheet1", prodSheet)
	header := []any{"ID", "Slug", "Name", "Category", "Price", "Stock", "Created"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(prodSheet, cell, h)
	}
	for row, p := range products {
		cat := ""
		if p.Category != nil {
			cat = p.Category.Name
		}
		values := []any{p.ID.String(), p.Slug, p.Name, cat, p.Price, p.Stock, p.CreatedAt.Format("2006-01-02")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(prodSheet, cell, v)
		}
	}

	const orderSheet = "Orders"
	_, _ = f.NewSheet(orderSheet)
	oHeader := []any{"ID", "Status", "Items", "Total", "Created"}
	for i, h := range oHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(orderSheet, cell, h)
	}
	for row, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Qty
		}
		values := []any{o.ID.String(), string(o.Status), items, whatsapp.FormatRupiah(o.Total), o.CreatedAt.Format("2006-01-02 15:04")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(orderSheet, cell, v)
		}
	}

	name := "stylemarket-" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("xlsx export")
	}
}
