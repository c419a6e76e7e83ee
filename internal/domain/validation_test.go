package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"collective name", "Open Source Collective", false},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxAccountNameLength+1), true},
		{"exactly max", strings.Repeat("a", MaxAccountNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountName(tt.input)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateAccountName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAccountName) {
				t.Fatalf("expected ErrInvalidAccountName, got %v", err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"USD", "jpy", " eur "} {
		if err := ValidateCurrency(ok); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", ok, err)
		}
	}
	for _, bad := range []string{"XYZ", "", "US"} {
		if err := ValidateCurrency(bad); !errors.Is(err, ErrInvalidCurrency) {
			t.Fatalf("expected ErrInvalidCurrency for %q, got %v", bad, err)
		}
	}

	if got := NormalizeCurrency(" gbp"); got != "GBP" {
		t.Fatalf("expected GBP, got %q", got)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(1); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}
	if err := ValidateAmount(-100); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := ValidateAmount(MaxEventAmount + 1); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidatePercent(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"0", "5", "12.5", "100"} {
		if err := ValidatePercent(decimal.RequireFromString(ok)); err != nil {
			t.Fatalf("expected %s to be valid, got %v", ok, err)
		}
	}
	for _, bad := range []string{"-1", "100.01"} {
		if err := ValidatePercent(decimal.RequireFromString(bad)); !errors.Is(err, ErrInvalidPercent) {
			t.Fatalf("expected ErrInvalidPercent for %s, got %v", bad, err)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, -5, DefaultPageSize, 0},
		{5000, 10, MaxPageSize, 10},
		{20, 40, 20, 40},
	}
	for _, tt := range tests {
		limit, offset := ValidatePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Fatalf("ValidatePagination(%d, %d) = %d/%d, want %d/%d",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
