package core

import (
	"fmt"
	"strings"
	"time"
)

// FieldError describes a single invalid payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the structured validation failure returned before any
// store access. It is an expected outcome, not an internal error.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *FieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// ErrOrNil returns the collected errors, or nil when validation passed.
func (e FieldErrors) ErrOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Upsert payloads. An empty ID selects the create path, a non-empty ID the
// update path. Owner is never part of the payload; the acting owner is an
// explicit parameter on every service call.
type (
	BudgetInput struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
	}

	ExpenseInput struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Amount      string    `json:"amount"`
		Date        time.Time `json:"date"`
		Icon        string    `json:"icon"`
		CategoryID  string    `json:"category_id"`
		BudgetID    string    `json:"budget_id"`
	}

	IncomeInput struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Amount      string    `json:"amount"`
		Date        time.Time `json:"date"`
		Icon        string    `json:"icon"`
		CategoryID  string    `json:"category_id"`
	}

	WishlistInput struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
		EstimatedPrice string `json:"estimated_price"`
		URL            string `json:"url"`
		Image          string `json:"image"`
		Purchased      bool   `json:"purchased"`
		Priority       string `json:"priority"`
	}

	CategoryInput struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
		Type  string `json:"type"`
	}
)

func validateName(errs *FieldErrors, name string) {
	if strings.TrimSpace(name) == "" {
		errs.add("name", "Name is required")
	}
}

func validateAmount(errs *FieldErrors, field, amount string) {
	if strings.TrimSpace(amount) == "" {
		errs.add(field, "Amount is required")
		return
	}
	if _, err := NormalizeAmount(amount); err != nil {
		errs.add(field, "Amount must be a valid non-negative number")
	}
}

func (in BudgetInput) Validate() error {
	var errs FieldErrors
	validateName(&errs, in.Name)
	validateAmount(&errs, "amount", in.Amount)
	return errs.ErrOrNil()
}

func (in ExpenseInput) Validate() error {
	var errs FieldErrors
	validateName(&errs, in.Name)
	validateAmount(&errs, "amount", in.Amount)
	if in.Date.IsZero() {
		errs.add("date", "Date is required")
	}
	return errs.ErrOrNil()
}

func (in IncomeInput) Validate() error {
	var errs FieldErrors
	validateName(&errs, in.Name)
	validateAmount(&errs, "amount", in.Amount)
	if in.Date.IsZero() {
		errs.add("date", "Date is required")
	}
	return errs.ErrOrNil()
}

func (in WishlistInput) Validate() error {
	var errs FieldErrors
	validateName(&errs, in.Name)
	// Estimated price is optional, but must parse when present.
	if strings.TrimSpace(in.EstimatedPrice) != "" {
		if _, err := NormalizeAmount(in.EstimatedPrice); err != nil {
			errs.add("estimated_price", "Amount must be a valid non-negative number")
		}
	}
	if p := strings.TrimSpace(in.Priority); p != "" && !Priority(p).Valid() {
		errs.add("priority", "Priority must be one of Low, Medium, High")
	}
	return errs.ErrOrNil()
}

// EffectivePriority resolves the payload priority, defaulting to Low.
func (in WishlistInput) EffectivePriority() Priority {
	p := Priority(strings.TrimSpace(in.Priority))
	if !p.Valid() {
		return PriorityLow
	}
	return p
}

func (in CategoryInput) Validate() error {
	var errs FieldErrors
	validateName(&errs, in.Name)
	if !CategoryType(in.Type).Valid() {
		errs.add("type", "Type must be either expense or income")
	}
	return errs.ErrOrNil()
}
