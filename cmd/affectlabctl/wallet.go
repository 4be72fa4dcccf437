package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
	"github.com/spf13/cobra"
)

var (
	walletLimit  int
	walletFilter string
	grantType    string
	grantNote    string
	historyLimit int
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect and adjust user wallets",
}

var walletShowCmd = &cobra.Command{
	Use:   "show USER",
	Short: "Show a wallet balance, summary and recent ledger entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		w, err := a.Wallet.EnsureWallet(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		canClaim, err := a.Wallet.CanClaimDaily(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		summary := wallet.ComputeSummary(w.Ledger)
		fmt.Fprintf(out, "User:     %s\n", w.UserID)
		fmt.Fprintf(out, "Balance:  %d\n", w.Balance)
		fmt.Fprintf(out, "Credited: %d (daily %d, ads %d)\n", summary.TotalCredit, summary.DailyCount, summary.AdCount)
		fmt.Fprintf(out, "Spent:    %d over %d cards\n", summary.TotalDebit, summary.GenerateCount)
		if canClaim {
			fmt.Fprintln(out, "Daily:    available")
		} else {
			fmt.Fprintln(out, "Daily:    claimed today")
		}

		view := wallet.BuildLedgerView(w.Ledger, walletLimit, wallet.ParseLedgerFilter(walletFilter), a.Wallet.Location())
		if len(view) == 0 {
			fmt.Fprintln(out, "\nNo ledger entries")
			return nil
		}
		fmt.Fprintln(out)
		for _, e := range view {
			fmt.Fprintf(out, "%+6d  %-7s %s  %s\n", e.Amount, e.Type, e.Sub, e.Title)
		}
		return nil
	},
}

var walletGrantCmd = &cobra.Command{
	Use:   "grant USER AMOUNT",
	Short: "Add a ledger entry moving the balance by AMOUNT",
	Long: `Add a ledger entry for a user. AMOUNT may be negative to correct a
balance. The entry is tagged source=admin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}
		entryType, err := parseEntryType(grantType)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		meta := map[string]string{"source": "admin"}
		if grantNote != "" {
			meta["note"] = grantNote
		}
		w, err := a.Wallet.AddLedgerEntry(cmd.Context(), args[0], amount, entryType, meta)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s balance: %d\n", w.UserID, w.Balance)
		return nil
	},
}

var walletClearCmd = &cobra.Command{
	Use:   "clear USER",
	Short: "Clear a ledger, keeping the balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		w, err := a.Wallet.ClearLedger(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ledger cleared, %s balance: %d\n", w.UserID, w.Balance)
		return nil
	},
}

var walletDailyCmd = &cobra.Command{
	Use:   "daily USER",
	Short: "Claim the daily reward on behalf of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		w, err := a.Wallet.ClaimDaily(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Daily claimed, %s balance: %d\n", w.UserID, w.Balance)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history USER",
	Short: "List a user's most recent cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.Generation.History(cmd.Context(), args[0], historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No cards")
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(out, "%-3s %3d  %-16s %s  %s\n", r.Rarity, r.LuckScore, r.TemplateID, r.ID, r.Text)
		}
		return nil
	},
}

func parseEntryType(s string) (entities.LedgerEntryType, error) {
	t := entities.LedgerEntryType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case entities.LedgerEntryDaily, entities.LedgerEntryAd, entities.LedgerEntrySpend, entities.LedgerEntryReroll:
		return t, nil
	}
	return "", fmt.Errorf("unknown ledger entry type %q", s)
}

func init() {
	walletShowCmd.Flags().IntVarP(&walletLimit, "limit", "n", 20, "Number of ledger entries to show")
	walletShowCmd.Flags().StringVarP(&walletFilter, "filter", "f", "", "Ledger filter: CREDIT|DEBIT|AD|DAILY|SPEND|REROLL")
	walletGrantCmd.Flags().StringVarP(&grantType, "type", "t", string(entities.LedgerEntryAd), "Ledger entry type")
	walletGrantCmd.Flags().StringVar(&grantNote, "note", "", "Note stored with the entry")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of cards to show")

	walletCmd.AddCommand(walletShowCmd)
	walletCmd.AddCommand(walletGrantCmd)
	walletCmd.AddCommand(walletClearCmd)
	walletCmd.AddCommand(walletDailyCmd)
}
