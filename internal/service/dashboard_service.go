package service

import (
	"time"

	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// Valuation is the remaining stock value per item plus the total.
type Valuation struct {
	Items []repository.ItemValuation `json:"items"`
	Total decimal.Decimal            `json:"total"`
}

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetValuation() (*Valuation, error)
	GetHistory(itemID string, limit int) ([]model.LedgerEntry, error)
}

type dashboardService struct {
	ledgerRepo repository.LedgerRepository
}

func NewDashboardService(ledgerRepo repository.LedgerRepository) DashboardService {
	return &dashboardService{ledgerRepo: ledgerRepo}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	return s.ledgerRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetValuation() (*Valuation, error) {
	items, err := s.ledgerRepo.GetValuation()
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, v := range items {
		total = total.Add(v.Value)
	}
	if items == nil {
		items = []repository.ItemValuation{}
	}
	return &Valuation{Items: items, Total: total}, nil
}

func (s *dashboardService) GetHistory(itemID string, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.ledgerRepo.ListEntries(repository.EntryFilter{ItemID: itemID, Limit: limit})
}
