package wallet

import (
	"testing"
	"time"

	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type LedgerViewTestSuite struct {
	suite.Suite
	loc    *time.Location
	ledger []*entities.LedgerEntry
}

func TestLedgerViewSuite(t *testing.T) {
	suite.Run(t, new(LedgerViewTestSuite))
}

func (s *LedgerViewTestSuite) SetupTest() {
	s.loc = time.FixedZone("UTC+8", 8*3600)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	// Deliberately out of order
	s.ledger = []*entities.LedgerEntry{
		{ID: "spend", TS: base + 2000, Type: entities.LedgerEntrySpend, Amount: -3, Meta: map[string]string{"templateTitle": "今日运势"}},
		{ID: "daily", TS: base + 1000, Type: entities.LedgerEntryDaily, Amount: 10},
		{ID: "ad", TS: base + 4000, Type: entities.LedgerEntryAd, Amount: 10},
		nil,
		{ID: "reroll", TS: base + 3000, Type: entities.LedgerEntryReroll, Amount: 0},
	}
}

func (s *LedgerViewTestSuite) ids(view []entities.DisplayEntry) []string {
	ids := make([]string, 0, len(view))
	for _, e := range view {
		ids = append(ids, e.ID)
	}
	return ids
}

func (s *LedgerViewTestSuite) TestSortedNewestFirst() {
	view := BuildLedgerView(s.ledger, 0, entities.FilterAll, s.loc)

	s.Equal([]string{"ad", "reroll", "spend", "daily"}, s.ids(view))
	s.Equal("spend", s.ledger[0].ID, "Input order must be preserved")
}

func (s *LedgerViewTestSuite) TestFilters() {
	testCases := []struct {
		filter   entities.LedgerFilter
		expected []string
	}{
		{filter: entities.FilterCredit, expected: []string{"ad", "daily"}},
		{filter: entities.FilterDebit, expected: []string{"spend"}},
		{filter: entities.FilterAd, expected: []string{"ad"}},
		{filter: entities.FilterDaily, expected: []string{"daily"}},
		{filter: entities.FilterSpend, expected: []string{"spend"}},
		{filter: entities.FilterReroll, expected: []string{"reroll"}},
	}

	for _, tc := range testCases {
		s.Run(string(tc.filter), func() {
			s.Equal(tc.expected, s.ids(BuildLedgerView(s.ledger, 50, tc.filter, s.loc)))
		})
	}
}

func (s *LedgerViewTestSuite) TestLimitAppliesAfterFilter() {
	view := BuildLedgerView(s.ledger, 1, entities.FilterCredit, s.loc)
	s.Equal([]string{"ad"}, s.ids(view))
}

func (s *LedgerViewTestSuite) TestFormatting() {
	view := BuildLedgerView(s.ledger, 50, entities.FilterAll, s.loc)

	s.Equal("广告补给", view[0].Title)
	s.Equal("重抽消耗", view[1].Title)
	s.Equal("生成消耗 · 今日运势", view[2].Title)
	s.Equal("每日补给", view[3].Title)
	s.Equal("2026-03-01 08:00:01", view[3].Sub)
}

func (s *LedgerViewTestSuite) TestSpendTitleFallbacks() {
	entry := &entities.LedgerEntry{Type: entities.LedgerEntrySpend, Meta: map[string]string{"templateId": "daily-luck"}}
	title, _ := FormatEntry(entry, s.loc)
	s.Equal("生成消耗 · daily-luck", title)

	title, _ = FormatEntry(&entities.LedgerEntry{Type: entities.LedgerEntrySpend}, s.loc)
	s.Equal("生成消耗 · 生成", title)

	title, _ = FormatEntry(&entities.LedgerEntry{Type: "BONUS"}, s.loc)
	s.Equal("记录", title)
}

func (s *LedgerViewTestSuite) TestComputeSummary() {
	summary := ComputeSummary(s.ledger)

	s.Equal(int64(20), summary.TotalCredit)
	s.Equal(int64(3), summary.TotalDebit)
	s.Equal(1, summary.AdCount)
	s.Equal(1, summary.DailyCount)
	s.Equal(1, summary.GenerateCount)
}

func (s *LedgerViewTestSuite) TestParseLedgerFilter() {
	s.Equal(entities.FilterCredit, ParseLedgerFilter(" credit "))
	s.Equal(entities.FilterReroll, ParseLedgerFilter("reroll"))
	s.Equal(entities.FilterAll, ParseLedgerFilter("everything"))
	s.Equal(entities.FilterAll, ParseLedgerFilter(""))
}
