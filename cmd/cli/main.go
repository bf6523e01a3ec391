package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sarraf-cli",
		Short: "Sarraf CLI tool",
		Long:  `A command line interface for interacting with the Sarraf ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Sarraf API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balanceCmd := &cobra.Command{
		Use:   "balance [holder-kind] [holder-id] [currency]",
		Short: "Show the balance for a holder and currency",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			showBalance(args[0], args[1], args[2])
		},
	}
	rootCmd.AddCommand(balanceCmd)

	movementsCmd := &cobra.Command{
		Use:   "movements [holder-kind] [holder-id] [currency]",
		Short: "List movements for a holder and currency",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			listMovements(args[0], args[1], args[2])
		},
	}
	rootCmd.AddCommand(movementsCmd)

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}
	rootCmd.AddCommand(consistencyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func showBalance(holderKind, holderID, currency string) {
	body := get(fmt.Sprintf("/api/v1/balances/%s/%s/%s", holderKind, holderID, currency))

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Holder:    %s/%s\n", result["holder_kind"], result["holder_id"])
	fmt.Printf("Currency:  %s\n", result["currency"])
	fmt.Printf("Balance:   %s\n", result["balance"])
	fmt.Printf("Credits:   %s\n", result["total_credits"])
	fmt.Printf("Debits:    %s\n", result["total_debits"])
	fmt.Printf("Movements: %v\n", result["movement_count"])
}

func listMovements(holderKind, holderID, currency string) {
	body := get(fmt.Sprintf("/api/v1/balances/%s/%s/%s/movements", holderKind, holderID, currency))

	var movements []map[string]any
	if err := json.Unmarshal(body, &movements); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, m := range movements {
		fmt.Printf("%s  %-22s %-6s %12s  %s -> %s\n",
			m["created_at"], m["label"], m["direction"], m["amount"],
			m["balance_before"], m["balance_after"])
	}
}

func checkConsistency() {
	body := get("/api/v1/consistency")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
		return
	}

	fmt.Println("Consistency check FAILED")
	out, _ := json.MarshalIndent(result["discrepancies"], "", "  ")
	fmt.Println(string(out))
	os.Exit(1)
}
