package report

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/steelops/intake-api/internal/common"
	"github.com/steelops/intake-api/internal/obs"
	"github.com/steelops/intake-api/internal/receipt"
)

// Transaction is one line item's (weight, sum) contribution inside a group.
type Transaction struct {
	Weight float64 `json:"weight"`
	Sum    int64   `json:"sum"`
}

// Group accumulates all line items sharing the same (percentage, coefficient)
// pair across a day's receipts. Two items with the same percentage but
// different coefficients land in separate groups.
type Group struct {
	Percentage   int           `json:"percentage"`
	Coefficient  float64       `json:"coefficient"`
	TotalWeight  float64       `json:"totalWeight"`
	TotalSum     int64         `json:"totalSum"`
	Transactions []Transaction `json:"transactions"`
}

// Report is the derived daily aggregate. It is never persisted.
type Report struct {
	Date        string            `json:"date"`
	Receipts    []receipt.Receipt `json:"receipts"`
	TotalWeight float64           `json:"totalWeight"`
	TotalSum    int64             `json:"totalSum"`
	Count       int               `json:"count"`
	Groups      []Group           `json:"groups"`
}

// ReceiptSource fetches the receipts for a calendar day, oldest first.
type ReceiptSource interface {
	ListByDate(ctx context.Context, day time.Time) ([]receipt.Receipt, error)
}

// Service builds daily reports, optionally serving them from a cache that is
// invalidated whenever a receipt for that day is created or deleted.
type Service struct {
	Receipts ReceiptSource
	Cache    *Cache
}

// groupKey is the composite grouping key. Structural equality avoids the
// formatting ambiguity of concatenated strings (2.3 vs 2.30).
type groupKey struct {
	percentage  int
	coefficient float64
}

// BuildDaily aggregates all receipts of the given calendar day. A day with no
// receipts yields an empty report, not an error.
func (s *Service) BuildDaily(ctx context.Context, day time.Time) (Report, error) {
	if s == nil || s.Receipts == nil {
		return Report{}, errors.New("report: service not configured")
	}
	if cached, ok := s.Cache.Get(ctx, day); ok {
		if obs.ReportBuildsTotal != nil {
			obs.ReportBuildsTotal.WithLabelValues("cache").Inc()
		}
		return cached, nil
	}

	receipts, err := s.Receipts.ListByDate(ctx, day)
	if err != nil {
		return Report{}, common.StoreError("list receipts for report", err)
	}

	rep := Report{
		Date:     common.FormatDay(day),
		Receipts: receipts,
		Count:    len(receipts),
		Groups:   []Group{},
	}

	// Totals fold the denormalized per-receipt caches, not raw items, so a
	// historical receipt always reports exactly what was printed on it.
	groups := make(map[groupKey]*Group)
	order := make([]groupKey, 0)
	for _, rec := range receipts {
		rep.TotalWeight += rec.TotalWeight
		rep.TotalSum += rec.TotalSum
		for _, item := range rec.Items {
			key := groupKey{percentage: item.Percentage, coefficient: item.Coefficient}
			grp, ok := groups[key]
			if !ok {
				grp = &Group{Percentage: item.Percentage, Coefficient: item.Coefficient}
				groups[key] = grp
				order = append(order, key)
			}
			grp.TotalWeight += item.Weight
			grp.TotalSum += item.Sum
			grp.Transactions = append(grp.Transactions, Transaction{Weight: item.Weight, Sum: item.Sum})
		}
	}

	rep.Groups = make([]Group, 0, len(order))
	for _, key := range order {
		rep.Groups = append(rep.Groups, *groups[key])
	}
	sort.Slice(rep.Groups, func(i, j int) bool {
		if rep.Groups[i].Percentage != rep.Groups[j].Percentage {
			return rep.Groups[i].Percentage < rep.Groups[j].Percentage
		}
		return rep.Groups[i].Coefficient < rep.Groups[j].Coefficient
	})

	if obs.ReportBuildsTotal != nil {
		obs.ReportBuildsTotal.WithLabelValues("db").Inc()
	}
	s.Cache.Set(ctx, day, rep)
	return rep, nil
}
