package wallet

import (
	"sort"
	"strings"
	"time"

	"github.com/fadedpez/affectlab/pkg/entities"
)

// DefaultLedgerLimit is used when a view asks for a non-positive limit
const DefaultLedgerLimit = 50

// Display titles for ledger entries
const (
	titleDaily    = "每日补给"
	titleAd       = "广告补给"
	titleSpend    = "生成消耗 · "
	titleSpendAny = "生成"
	titleReroll   = "重抽消耗"
	titleOther    = "记录"
)

const displayTimeLayout = "2006-01-02 15:04:05"

// ComputeSummary totals a ledger. Debits are reported as a positive magnitude.
func ComputeSummary(ledger []*entities.LedgerEntry) entities.WalletSummary {
	var summary entities.WalletSummary
	for _, entry := range ledger {
		if entry == nil {
			continue
		}
		if entry.Amount > 0 {
			summary.TotalCredit += entry.Amount
		} else if entry.Amount < 0 {
			summary.TotalDebit += -entry.Amount
		}
		switch entry.Type {
		case entities.LedgerEntryAd:
			summary.AdCount++
		case entities.LedgerEntryDaily:
			summary.DailyCount++
		case entities.LedgerEntrySpend:
			summary.GenerateCount++
		}
	}
	return summary
}

// BuildLedgerView sorts newest first, filters, truncates to limit and formats.
// The input slice is not modified.
func BuildLedgerView(ledger []*entities.LedgerEntry, limit int, filter entities.LedgerFilter, loc *time.Location) []entities.DisplayEntry {
	if limit <= 0 {
		limit = DefaultLedgerLimit
	}
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]*entities.LedgerEntry, 0, len(ledger))
	for _, entry := range ledger {
		if entry != nil {
			sorted = append(sorted, entry)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TS > sorted[j].TS
	})

	view := make([]entities.DisplayEntry, 0, min(limit, len(sorted)))
	for _, entry := range sorted {
		if len(view) == limit {
			break
		}
		if !matchesFilter(entry, filter) {
			continue
		}
		title, sub := FormatEntry(entry, loc)
		view = append(view, entities.DisplayEntry{
			ID:     entry.ID,
			TS:     entry.TS,
			Type:   entry.Type,
			Amount: entry.Amount,
			Title:  title,
			Sub:    sub,
		})
	}
	return view
}

func matchesFilter(entry *entities.LedgerEntry, filter entities.LedgerFilter) bool {
	switch filter {
	case entities.FilterCredit:
		return entry.Amount > 0
	case entities.FilterDebit:
		return entry.Amount < 0
	case entities.FilterAd, entities.FilterDaily, entities.FilterSpend, entities.FilterReroll:
		return string(entry.Type) == string(filter)
	default:
		return true
	}
}

// FormatEntry returns the display title and formatted local time of an entry
func FormatEntry(entry *entities.LedgerEntry, loc *time.Location) (string, string) {
	sub := time.UnixMilli(entry.TS).In(loc).Format(displayTimeLayout)

	switch entry.Type {
	case entities.LedgerEntryDaily:
		return titleDaily, sub
	case entities.LedgerEntryAd:
		return titleAd, sub
	case entities.LedgerEntrySpend:
		name := entry.Meta["templateTitle"]
		if name == "" {
			name = entry.Meta["templateId"]
		}
		if name == "" {
			name = titleSpendAny
		}
		return titleSpend + name, sub
	case entities.LedgerEntryReroll:
		return titleReroll, sub
	default:
		return titleOther, sub
	}
}

// ParseLedgerFilter maps user input to a filter; unknown values show everything
func ParseLedgerFilter(s string) entities.LedgerFilter {
	switch f := entities.LedgerFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case entities.FilterCredit, entities.FilterDebit, entities.FilterAd,
		entities.FilterDaily, entities.FilterSpend, entities.FilterReroll:
		return f
	default:
		return entities.FilterAll
	}
}
