package entities

// LedgerEntryType is the category of a wallet-affecting event
type LedgerEntryType string

const (
	LedgerEntryDaily  LedgerEntryType = "DAILY"
	LedgerEntryAd     LedgerEntryType = "AD"
	LedgerEntrySpend  LedgerEntryType = "SPEND"
	LedgerEntryReroll LedgerEntryType = "REROLL"
)

// LedgerEntry is a single wallet-affecting event
type LedgerEntry struct {
	ID     string            `json:"id"`
	TS     int64             `json:"ts"`     // epoch milliseconds
	Type   LedgerEntryType   `json:"type"`   // event category
	Amount int64             `json:"amount"` // positive credits, negative debits
	Meta   map[string]string `json:"meta,omitempty"`
}

// Wallet is a user's candy balance and the ledger backing it.
// Balance is always Opening plus the sum of the ledger amounts.
type Wallet struct {
	UserID  string
	Balance int64
	Ledger  []*LedgerEntry // newest first
	Opening int64          // balance before the oldest retained entry
}

// Recalculate derives Balance from Opening and the ledger
func (w *Wallet) Recalculate() {
	w.Balance = w.Opening + LedgerTotal(w.Ledger)
}

// LedgerTotal sums the amounts of a ledger
func LedgerTotal(ledger []*LedgerEntry) int64 {
	var total int64
	for _, entry := range ledger {
		if entry != nil {
			total += entry.Amount
		}
	}
	return total
}

// WalletSummary aggregates a ledger for display
type WalletSummary struct {
	TotalCredit   int64
	TotalDebit    int64
	AdCount       int
	DailyCount    int
	GenerateCount int
}

// LedgerFilter selects which entries a ledger view shows
type LedgerFilter string

const (
	FilterAll    LedgerFilter = ""
	FilterCredit LedgerFilter = "CREDIT"
	FilterDebit  LedgerFilter = "DEBIT"
	FilterAd     LedgerFilter = LedgerFilter(LedgerEntryAd)
	FilterDaily  LedgerFilter = LedgerFilter(LedgerEntryDaily)
	FilterSpend  LedgerFilter = LedgerFilter(LedgerEntrySpend)
	FilterReroll LedgerFilter = LedgerFilter(LedgerEntryReroll)
)

// DisplayEntry is a ledger entry formatted for a list view
type DisplayEntry struct {
	ID     string
	TS     int64
	Type   LedgerEntryType
	Amount int64
	Title  string
	Sub    string
}
