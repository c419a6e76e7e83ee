package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
)

// errInconsistent makes the consistency command exit non-zero.
var errInconsistent = errors.New("ledger is inconsistent")

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends body as JSON and returns the status and raw response.
func (c *apiClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func apiError(status int, body []byte) error {
	var e dto.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		if e.Message != "" {
			return fmt.Errorf("%s (status %d): %s", e.Error, status, e.Message)
		}
		return fmt.Errorf("%s (status %d)", e.Error, status)
	}
	return fmt.Errorf("unexpected status %d: %s", status, truncate(string(body), 200))
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that every ledger group sums to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := newAPIClient().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK && status != http.StatusConflict {
				return apiError(status, body)
			}

			var report dto.ConsistencyResponse
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if report.Consistent {
				fmt.Fprintln(out, "Consistency check PASSED")
				return nil
			}

			fmt.Fprintf(out, "Consistency check FAILED: %d unbalanced groups\n", len(report.Unbalanced))
			for _, g := range report.Unbalanced {
				fmt.Fprintf(out, "  %s  amount=%d  host_amount=%d\n", g.GroupID, g.Amount, g.AmountInHostCurrency)
			}
			return errInconsistent
		},
	}
}

func balanceCmd() *cobra.Command {
	var includeBlocked bool

	cmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/accounts/%s/balance?include_blocked=%t", args[0], includeBlocked)
			status, body, err := newAPIClient().do(cmd.Context(), http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return apiError(status, body)
			}

			var balance dto.BalanceResponse
			if err := json.Unmarshal(body, &balance); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", balance.AccountID, domain.NewMoney(balance.Amount, balance.Currency).Format())
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeBlocked, "include-blocked", false, "Count funds held by disputes and reviews")

	return cmd
}

func settleCmd() *cobra.Command {
	var (
		year, month int
		async       bool
	)

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settle host debts for a billing period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/settlements"
			if async {
				path += "?async=true"
			}
			status, body, err := newAPIClient().do(cmd.Context(), http.MethodPost, path, dto.SettlePeriodRequest{Year: year, Month: month})
			if err != nil {
				return err
			}
			switch status {
			case http.StatusOK, http.StatusAccepted, http.StatusMultiStatus:
			default:
				return apiError(status, body)
			}

			var pretty any
			if err := json.Unmarshal(body, &pretty); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printJSON(cmd.OutOrStdout(), pretty)
			if status == http.StatusMultiStatus {
				return errors.New("some hosts failed to settle")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Period year")
	cmd.Flags().IntVar(&month, "month", 0, "Period month (1-12)")
	cmd.Flags().BoolVar(&async, "async", false, "Enqueue the settlement instead of waiting for it")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
