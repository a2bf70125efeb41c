package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/depack/cashflow-backend/internal/codec"
	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/models"
	"github.com/depack/cashflow-backend/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Offline cash-flow planning tools",
	Long: `Offline companions to the cashflow API: project a transaction file to a
90-day running balance, or convert an amount between accounts through the
USD bridge.`,
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project a transaction file to a daily ledger",
	RunE:  runProject,
}

var convertCmd = &cobra.Command{
	Use:   "convert AMOUNT FROM TO",
	Short: "Convert an amount between currency accounts",
	Args:  cobra.ExactArgs(3),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(convertCmd)

	projectCmd.Flags().StringP("file", "f", "", "Transaction file in the 8-column import format")
	projectCmd.Flags().StringP("currency", "c", "USD", "Account to project")
	projectCmd.Flags().IntP("days", "d", services.DefaultHorizonDays, "Horizon in days")
	projectCmd.Flags().Float64("opening", 0, "Opening balance for the account")
	_ = projectCmd.MarkFlagRequired("file")

	convertCmd.Flags().Float64("eur-usd", 1.08, "1 EUR in USD")
	convertCmd.Flags().Float64("usd-egp", 48.5, "1 USD in EGP")
}

func runProject(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	currency, _ := cmd.Flags().GetString("currency")
	days, _ := cmd.Flags().GetInt("days")
	opening, _ := cmd.Flags().GetFloat64("opening")

	if !models.IsValidCurrency(models.Currency(currency)) {
		return fmt.Errorf("unknown currency %q", currency)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	now := time.Now()
	txs := codec.Parse(string(raw), now)
	opened := models.ZeroBalances()
	opened[models.Currency(currency)] = opening

	rows := services.Project(txs, opened, models.Currency(currency), days, now)

	fmt.Printf("%-12s %14s %14s %14s %14s\n", "DATE", "CREDIT", "DEBIT", "NET", "BALANCE")
	for _, row := range rows {
		if row.Credit == 0 && row.Debit == 0 && row.Date != rows[0].Date {
			continue
		}
		fmt.Printf("%-12s %14.2f %14.2f %14.2f %14.2f\n",
			codec.FormatDisplayDate(row.Date), row.Credit, row.Debit, row.Net, row.Balance)
	}
	fmt.Printf("\n%d transactions, closing balance %.2f %s\n", len(txs), rows[len(rows)-1].Balance, currency)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	var amount float64
	if _, err := fmt.Sscanf(strings.TrimSpace(args[0]), "%f", &amount); err != nil {
		return fmt.Errorf("amount must be numeric: %q", args[0])
	}
	from := models.Currency(args[1])
	to := models.Currency(args[2])
	for _, c := range []models.Currency{from, to} {
		switch c {
		case models.CurrencyEGP, models.CurrencyUSD, models.CurrencyEUR:
		default:
			return fmt.Errorf("%q is not a convertible currency", c)
		}
	}

	eurUsd, _ := cmd.Flags().GetFloat64("eur-usd")
	usdEgp, _ := cmd.Flags().GetFloat64("usd-egp")
	rates := dto.Rates{EurUsd: eurUsd, UsdEgp: usdEgp}

	fmt.Printf("%.2f %s = %.2f %s\n", amount, from, services.Convert(amount, from, to, rates), to)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
