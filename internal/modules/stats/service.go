package stats

import (
	"context"
	"sort"
	"time"

	"maquidash/internal/domain"
)

// QuoteSource is the slice of the quotes service the dashboard cards need.
type QuoteSource interface {
	List(ctx context.Context) ([]domain.Quote, error)
}

// Summary backs the dashboard header cards and the monthly ranking table.
type Summary struct {
	Total         int                        `json:"total"`
	ByStatus      map[domain.QuoteStatus]int `json:"porEstado"`
	PipelineValue float64                    `json:"valorPipeline"`
	WonValue      float64                    `json:"valorVendido"`
	MonthRanking  []MachineryCount           `json:"rankingMes"`
}

type MachineryCount struct {
	Machinery string `json:"maquinaria"`
	Count     int    `json:"cantidad"`
}

type Service struct {
	quotes QuoteSource
}

func NewService(quotes QuoteSource) *Service {
	return &Service{quotes: quotes}
}

// Summarize computes all dashboard aggregates in one pass over the quote
// list. The monthly ranking covers quotes created in the current month and
// skips lost ones.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	quotes, err := s.quotes.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sum := &Summary{ByStatus: map[domain.QuoteStatus]int{}}
	monthly := map[string]int{}

	for _, st := range domain.QuoteStatuses {
		sum.ByStatus[st] = 0
	}
	for _, q := range quotes {
		sum.Total++
		sum.ByStatus[q.Status]++
		switch q.Status {
		case domain.QuoteSold:
			sum.WonValue += q.QuotedPrice
		case domain.QuoteLost:
		default:
			sum.PipelineValue += q.QuotedPrice
		}
		if q.Status != domain.QuoteLost && q.Machinery != "" && q.CreatedAt.SameMonth(now) {
			monthly[q.Machinery]++
		}
	}

	sum.MonthRanking = make([]MachineryCount, 0, len(monthly))
	for name, count := range monthly {
		sum.MonthRanking = append(sum.MonthRanking, MachineryCount{Machinery: name, Count: count})
	}
	sort.SliceStable(sum.MonthRanking, func(i, j int) bool {
		if sum.MonthRanking[i].Count != sum.MonthRanking[j].Count {
			return sum.MonthRanking[i].Count > sum.MonthRanking[j].Count
		}
		return sum.MonthRanking[i].Machinery < sum.MonthRanking[j].Machinery
	})
	return sum, nil
}
