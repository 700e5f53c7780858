package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tiagobluiz/splitbill/internal/domain"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitbill-cli",
		Short: "Splitbill CLI tool",
		Long:  `A command line interface for the Splitbill API and its split engine.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Splitbill API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Split calculations",
	}
	splitCmd.AddCommand(splitPreviewCmd())
	rootCmd.AddCommand(splitCmd)

	rootCmd.AddCommand(settleCmd())
	rootCmd.AddCommand(balancesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// splitPreviewCmd computes a split locally, without touching the API.
func splitPreviewCmd() *cobra.Command {
	var (
		total    string
		currency string
		even     []string
		percents []string
		amounts  []string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview how an amount splits across participants",
		Example: `  splitbill-cli split preview --total 100.00 --currency EUR \
    --even 8d54f3a0-0000-0000-0000-000000000001 \
    --even 8d54f3a0-0000-0000-0000-000000000002`,
		RunE: func(cmd *cobra.Command, args []string) error {
			totalAmount, err := domain.NewAmountFromString(total)
			if err != nil {
				return fmt.Errorf("total: %w", err)
			}
			code, err := domain.NewCurrencyCode(currency)
			if err != nil {
				return err
			}

			instructions, err := buildInstructions(even, percents, amounts)
			if err != nil {
				return err
			}

			request, err := domain.NewSplitCalculationRequest(totalAmount, code, instructions)
			if err != nil {
				return err
			}
			result, err := domain.NewSplitCalculator().Calculate(request)
			if err != nil {
				return err
			}

			type allocation struct {
				PersonID string `json:"person_id"`
				Amount   string `json:"amount"`
			}
			out := struct {
				TotalAmount string       `json:"total_amount"`
				Currency    string       `json:"currency"`
				Mode        string       `json:"mode"`
				Allocations []allocation `json:"allocations"`
			}{
				TotalAmount: totalAmount.String(),
				Currency:    code.String(),
				Mode:        string(request.Mode()),
			}
			for _, a := range result.Allocations {
				out.Allocations = append(out.Allocations, allocation{
					PersonID: a.ParticipantID.String(),
					Amount:   a.Amount.String(),
				})
			}

			printJSON(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "Total amount to split (required)")
	cmd.Flags().StringVar(&currency, "currency", "EUR", "ISO 4217 currency code")
	cmd.Flags().StringArrayVar(&even, "even", nil, "Participant id to include in an even split (repeatable)")
	cmd.Flags().StringArrayVar(&percents, "percent", nil, "Percent share as id=percent (repeatable)")
	cmd.Flags().StringArrayVar(&amounts, "amount", nil, "Fixed share as id=amount (repeatable)")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

// settleCmd turns a set of net balances into transfers locally.
func settleCmd() *cobra.Command {
	var (
		nets      []string
		algorithm string
	)

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Compute settling transfers from net balances",
		Example: `  splitbill-cli settle --algorithm MIN_TRANSFER \
    --net 8d54f3a0-0000-0000-0000-000000000001=40.00 \
    --net 8d54f3a0-0000-0000-0000-000000000002=-40.00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := domain.ParseSettlementAlgorithm(algorithm)
			if err != nil {
				return err
			}
			strategy, err := domain.StrategyFor(parsed)
			if err != nil {
				return err
			}

			balances := make([]domain.NetBalance, 0, len(nets))
			for _, raw := range nets {
				id, value, err := parseAssignment(raw)
				if err != nil {
					return err
				}
				amount, err := domain.NewAmountFromString(value)
				if err != nil {
					return fmt.Errorf("net %s: %w", id, err)
				}
				balances = append(balances, domain.NetBalance{
					PersonID: domain.ParticipantIDOf(id),
					Amount:   amount,
				})
			}
			sort.Slice(balances, func(a, b int) bool {
				return balances[a].PersonID.Less(balances[b].PersonID)
			})

			type transfer struct {
				FromPersonID string `json:"from_person_id"`
				ToPersonID   string `json:"to_person_id"`
				Amount       string `json:"amount"`
			}
			out := struct {
				Algorithm string     `json:"algorithm"`
				Transfers []transfer `json:"transfers"`
			}{Algorithm: string(parsed), Transfers: []transfer{}}
			for _, t := range strategy.Settle(balances) {
				out.Transfers = append(out.Transfers, transfer{
					FromPersonID: t.FromPersonID.String(),
					ToPersonID:   t.ToPersonID.String(),
					Amount:       t.Amount.String(),
				})
			}

			printJSON(out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&nets, "net", nil, "Net balance as id=amount, positive means owed (repeatable)")
	cmd.Flags().StringVar(&algorithm, "algorithm", "MIN_TRANSFER", "Settlement algorithm: MIN_TRANSFER or PAIRWISE")

	return cmd
}

// balancesCmd fetches an event's balances from the API.
func balancesCmd() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "balances <event-id>",
		Short: "Fetch an event's balances and settlement plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid event id %q", args[0])
			}

			endpoint := fmt.Sprintf("%s/api/v1/events/%s/balances", baseURL, eventID)
			if algorithm != "" {
				endpoint += "?algorithm=" + url.QueryEscape(algorithm)
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(endpoint)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printJSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "Override the event's settlement algorithm")

	return cmd
}

func buildInstructions(even, percents, amounts []string) ([]domain.SplitInstruction, error) {
	var instructions []domain.SplitInstruction

	for _, raw := range even {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid participant id %q", raw)
		}
		instructions = append(instructions, domain.NewEvenSplitInstruction(domain.ParticipantIDOf(id)))
	}
	for _, raw := range percents {
		id, value, err := parseAssignment(raw)
		if err != nil {
			return nil, err
		}
		percent, err := domain.NewPercentageFromString(value)
		if err != nil {
			return nil, fmt.Errorf("percent %s: %w", id, err)
		}
		instructions = append(instructions, domain.NewPercentSplitInstruction(domain.ParticipantIDOf(id), percent))
	}
	for _, raw := range amounts {
		id, value, err := parseAssignment(raw)
		if err != nil {
			return nil, err
		}
		amount, err := domain.NewAmountFromString(value)
		if err != nil {
			return nil, fmt.Errorf("amount %s: %w", id, err)
		}
		instructions = append(instructions, domain.NewAmountSplitInstruction(domain.ParticipantIDOf(id), amount))
	}

	return instructions, nil
}

// parseAssignment splits an "id=value" flag into its parts.
func parseAssignment(raw string) (uuid.UUID, string, error) {
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 || parts[1] == "" {
		return uuid.Nil, "", fmt.Errorf("expected id=value, got %q", raw)
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid participant id %q", parts[0])
	}
	return id, parts[1], nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
