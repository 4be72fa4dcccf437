package wallet

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/fadedpez/affectlab/pkg/entities"
)

// walletDocument is the persisted wallet shape
type walletDocument struct {
	Balance int64                   `json:"balance"`
	Ledger  []*entities.LedgerEntry `json:"ledger"`
}

// EncodeWallet serializes a wallet as {balance, ledger}
func EncodeWallet(w *entities.Wallet) ([]byte, error) {
	ledger := w.Ledger
	if ledger == nil {
		ledger = []*entities.LedgerEntry{}
	}
	return json.Marshal(walletDocument{Balance: w.Balance, Ledger: ledger})
}

// DecodeWallet parses a stored wallet and derives its opening balance.
// Data without a numeric balance is ErrWalletNotFound; a numeric balance with
// a missing or unreadable ledger is repaired to an empty ledger and returned
// with ErrMalformedWallet.
func DecodeWallet(userID string, data []byte) (*entities.Wallet, error) {
	var raw struct {
		Balance json.RawMessage `json:"balance"`
		Ledger  json.RawMessage `json:"ledger"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWalletNotFound, err)
	}

	balance, ok := parseBalance(raw.Balance)
	if !ok {
		return nil, fmt.Errorf("%w: stored wallet has no numeric balance", ErrWalletNotFound)
	}

	ledger, ok := parseLedger(raw.Ledger)
	if !ok {
		w := &entities.Wallet{UserID: userID, Opening: balance, Ledger: []*entities.LedgerEntry{}}
		w.Recalculate()
		return w, ErrMalformedWallet
	}

	w := &entities.Wallet{
		UserID:  userID,
		Ledger:  ledger,
		Opening: balance - entities.LedgerTotal(ledger),
	}
	w.Recalculate()
	return w, nil
}

func parseBalance(data json.RawMessage) (int64, bool) {
	if len(data) == 0 || data[0] == '"' {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func parseLedger(data json.RawMessage) ([]*entities.LedgerEntry, bool) {
	if len(data) == 0 || string(data) == "null" {
		return nil, false
	}
	var entries []*entities.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}

	ledger := make([]*entities.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			ledger = append(ledger, e)
		}
	}
	return ledger, true
}

// CloneWallet returns a deep copy of w
func CloneWallet(w *entities.Wallet) *entities.Wallet {
	if w == nil {
		return nil
	}
	clone := *w
	clone.Ledger = make([]*entities.LedgerEntry, len(w.Ledger))
	for i, e := range w.Ledger {
		entry := *e
		if e.Meta != nil {
			entry.Meta = make(map[string]string, len(e.Meta))
			for k, v := range e.Meta {
				entry.Meta[k] = v
			}
		}
		clone.Ledger[i] = &entry
	}
	return &clone
}
