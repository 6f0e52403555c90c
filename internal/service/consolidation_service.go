package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"cantine/internal/dto"
	"cantine/internal/infra"
	"cantine/internal/model"
	"cantine/internal/repository"
)

type ConsolidationService interface {
	// ForDate aggregates one site's confirmed and ready orders into
	// per-dish preparation lines.
	ForDate(ctx context.Context, date time.Time, site string) (*dto.ConsolidationResponse, error)
	// Preparation covers every site for the day.
	Preparation(ctx context.Context, date time.Time) (*dto.PreparationResponse, error)

	PrepSheetPDF(ctx context.Context, date time.Time, site string) (string, error)
	WeekWorkbook(ctx context.Context) (*bytes.Buffer, string, error)
}

type consolidationService struct {
	orders         repository.OrderRepository
	pdfStoragePath string
}

func NewConsolidationService(orders repository.OrderRepository, pdfStoragePath string) ConsolidationService {
	return &consolidationService{orders: orders, pdfStoragePath: pdfStoragePath}
}

func (s *consolidationService) ForDate(ctx context.Context, date time.Time, site string) (*dto.ConsolidationResponse, error) {
	if !model.ValidSite(site) {
		return nil, ErrNotFound
	}
	orders, err := s.orders.ListForPreparation(ctx, date, site)
	if err != nil {
		return nil, err
	}
	lines, total := buildPrepLines(orders)
	return &dto.ConsolidationResponse{
		Date:        date.Format("2006-01-02"),
		Site:        site,
		Lines:       lines,
		TotalOrders: total,
	}, nil
}

func (s *consolidationService) Preparation(ctx context.Context, date time.Time) (*dto.PreparationResponse, error) {
	resp := &dto.PreparationResponse{Date: date.Format("2006-01-02")}
	for _, site := range model.Sites {
		orders, err := s.orders.ListForPreparation(ctx, date, site)
		if err != nil {
			return nil, err
		}
		lines, total := buildPrepLines(orders)
		resp.Sites = append(resp.Sites, dto.SitePrepSummary{
			Site:        site,
			Lines:       lines,
			TotalOrders: total,
		})
	}
	return resp, nil
}

func (s *consolidationService) PrepSheetPDF(ctx context.Context, date time.Time, site string) (string, error) {
	sheet, err := s.ForDate(ctx, date, site)
	if err != nil {
		return "", err
	}
	return infra.GeneratePrepSheet(s.pdfStoragePath, sheet)
}

// WeekWorkbook exports the current work week as an Excel file, one sheet per
// day, for offline planning at the caterer's kitchen.
func (s *consolidationService) WeekWorkbook(ctx context.Context) (*bytes.Buffer, string, error) {
	monday, friday := weekBounds(time.Now())
	var days []dto.PreparationResponse
	for d := monday; !d.After(friday); d = d.AddDate(0, 0, 1) {
		day, err := s.Preparation(ctx, d)
		if err != nil {
			return nil, "", err
		}
		days = append(days, *day)
	}
	buf, err := infra.BuildConsolidationWorkbook(days)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("consolidation_%s.xlsx", monday.Format("2006-01-02"))
	return buf, name, nil
}

// buildPrepLines groups orders by dish. Input comes ordered by dish name, so
// a single pass suffices.
func buildPrepLines(orders []model.Order) ([]dto.PrepLine, int) {
	var lines []dto.PrepLine
	byDish := map[string]int{}
	total := 0

	for i := range orders {
		o := &orders[i]
		name := o.DishID.String()
		category := ""
		if o.Dish != nil {
			name = o.Dish.Name
			if o.Dish.Category != nil {
				category = o.Dish.Category.Name
			}
		}

		idx, ok := byDish[name]
		if !ok {
			lines = append(lines, dto.PrepLine{DishName: name, Category: category})
			idx = len(lines) - 1
			byDish[name] = idx
		}
		switch o.Status {
		case model.StatusConfirmed:
			lines[idx].Confirmed++
		case model.StatusReady:
			lines[idx].Ready++
		}
		lines[idx].Total++
		total++
		if o.SpecialNotes != "" {
			lines[idx].Notes = append(lines[idx].Notes, o.SpecialNotes)
		}
	}
	return lines, total
}
