package money

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
)

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  Amount
	}{
		{name: "dot form", value: "49.99", want: 4999},
		{name: "comma form", value: "49,99", want: 4999},
		{name: "whole number", value: "100", want: 10000},
		{name: "single fractional digit", value: "0.5", want: 50},
		{name: "zero", value: "0", want: 0},
		{name: "trailing dot", value: "12.", want: 1200},
		{name: "surrounding whitespace", value: " 7.25 ", want: 725},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDecimal(tc.value)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.value, err)
			}
			if got != tc.want {
				t.Fatalf("parse %q: got %d, want %d", tc.value, got, tc.want)
			}
		})
	}
}

func TestParseDecimalRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "empty", value: ""},
		{name: "whitespace only", value: "   "},
		{name: "negative", value: "-1"},
		{name: "explicit plus sign", value: "+1"},
		{name: "three fractional digits", value: "1.999"},
		{name: "letters", value: "abc"},
		{name: "two separators", value: "1.2.3"},
		{name: "lone separator", value: "."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDecimal(tc.value)
			if err == nil {
				t.Fatalf("expected parse of %q to fail", tc.value)
			}
			if !errors.Is(err, apperrors.New(apperrors.CodeMoneyInvalidAmount, "")) {
				t.Fatalf("expected invalid amount code, got %v", err)
			}
		})
	}
}

func TestAmountString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount Amount
		want   string
	}{
		{amount: 4999, want: "49.99"},
		{amount: -4999, want: "-49.99"},
		{amount: 5, want: "0.05"},
		{amount: 0, want: "0.00"},
		{amount: 10000, want: "100.00"},
	}

	for _, tc := range tests {
		if got := tc.amount.String(); got != tc.want {
			t.Fatalf("String of %d: got %q, want %q", tc.amount.Cents(), got, tc.want)
		}
	}
}

func TestAmountIsPositive(t *testing.T) {
	t.Parallel()

	if Zero.IsPositive() {
		t.Fatal("zero should not be positive")
	}
	if Amount(-1).IsPositive() {
		t.Fatal("negative amount should not be positive")
	}
	if !Amount(1).IsPositive() {
		t.Fatal("one cent should be positive")
	}
}
