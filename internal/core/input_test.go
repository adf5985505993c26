package core

import (
	"errors"
	"testing"
	"time"
)

func fieldOf(t *testing.T, err error, field string) bool {
	t.Helper()
	var errs FieldErrors
	if !errors.As(err, &errs) {
		t.Fatalf("error %v is not FieldErrors", err)
	}
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestBudgetInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        BudgetInput
		wantField string
	}{
		{name: "valid", in: BudgetInput{Name: "Groceries", Amount: "100"}},
		{name: "empty name rejected", in: BudgetInput{Name: "", Amount: "10"}, wantField: "name"},
		{name: "whitespace name rejected", in: BudgetInput{Name: "   ", Amount: "10"}, wantField: "name"},
		{name: "missing amount", in: BudgetInput{Name: "x"}, wantField: "amount"},
		{name: "negative amount", in: BudgetInput{Name: "x", Amount: "-5"}, wantField: "amount"},
		{name: "zero amount is valid", in: BudgetInput{Name: "x", Amount: "0"}},
		{name: "garbage amount", in: BudgetInput{Name: "x", Amount: "abc"}, wantField: "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want field error")
			}
			if !fieldOf(t, err, tt.wantField) {
				t.Errorf("Validate() = %v, want error on field %q", err, tt.wantField)
			}
		})
	}
}

func TestExpenseInputValidate(t *testing.T) {
	valid := ExpenseInput{Name: "Lunch", Amount: "12.5", Date: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	noDate := ExpenseInput{Name: "Lunch", Amount: "12.5"}
	err := noDate.Validate()
	if err == nil || !fieldOf(t, err, "date") {
		t.Errorf("missing date must fail on the date field, got %v", err)
	}
}

func TestWishlistInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        WishlistInput
		wantField string
	}{
		{name: "minimal valid", in: WishlistInput{Name: "Keyboard"}},
		{name: "empty price allowed", in: WishlistInput{Name: "Keyboard", EstimatedPrice: ""}},
		{name: "bad price rejected", in: WishlistInput{Name: "Keyboard", EstimatedPrice: "cheap"}, wantField: "estimated_price"},
		{name: "unknown priority rejected", in: WishlistInput{Name: "Keyboard", Priority: "Urgent"}, wantField: "priority"},
		{name: "known priority accepted", in: WishlistInput{Name: "Keyboard", Priority: "High"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !fieldOf(t, err, tt.wantField) {
				t.Errorf("Validate() = %v, want error on field %q", err, tt.wantField)
			}
		})
	}
}

func TestWishlistInputEffectivePriority(t *testing.T) {
	if got := (WishlistInput{}).EffectivePriority(); got != PriorityLow {
		t.Errorf("empty priority = %q, want Low", got)
	}
	if got := (WishlistInput{Priority: "Medium"}).EffectivePriority(); got != PriorityMedium {
		t.Errorf("Medium priority = %q, want Medium", got)
	}
}

func TestCategoryInputValidate(t *testing.T) {
	valid := CategoryInput{Name: "Food", Type: "expense"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	badType := CategoryInput{Name: "Food", Type: "misc"}
	err := badType.Validate()
	if err == nil || !fieldOf(t, err, "type") {
		t.Errorf("bad type must fail on the type field, got %v", err)
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	err := BudgetInput{}.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	msg := err.Error()
	if msg == "" {
		t.Error("FieldErrors message must not be empty")
	}
}
