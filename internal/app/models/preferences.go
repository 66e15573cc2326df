package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "2006-01-02"

// TravelPreferences is the immutable snapshot of the trip form, passed
// as-is to the generation call.
type TravelPreferences struct {
	Destination string   `json:"destination"`
	Budget      string   `json:"budget"`
	Currency    string   `json:"currency"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Interests   []string `json:"interests"`
}

// ValidationError carries every failed field so the form can show them all
// at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid preferences: " + strings.Join(parts, "; ")
}

// Validate checks the preferences before any remote call is made.
func (p TravelPreferences) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(p.Destination) == "" {
		fields["destination"] = "destination is required"
	}

	if budget, err := strconv.ParseFloat(p.Budget, 64); err != nil || budget <= 0 {
		fields["budget"] = "budget must be a positive number"
	}
	if _, err := currency.ParseISO(p.Currency); err != nil {
		fields["currency"] = fmt.Sprintf("unknown currency code %q", p.Currency)
	}

	start, startErr := time.Parse(dateLayout, p.StartDate)
	if startErr != nil {
		fields["startDate"] = "start date must be YYYY-MM-DD"
	}
	end, endErr := time.Parse(dateLayout, p.EndDate)
	if endErr != nil {
		fields["endDate"] = "end date must be YYYY-MM-DD"
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		fields["endDate"] = "end date cannot be before start date"
	}

	if len(p.Interests) == 0 {
		fields["interests"] = "select at least one interest"
	}
	for _, interest := range p.Interests {
		if strings.TrimSpace(interest) == "" {
			fields["interests"] = "interests cannot be blank"
			break
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Days derives the trip duration in days. A same-day trip counts as one day.
func (p TravelPreferences) Days() int {
	start, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return 1
	}
	end, err := time.Parse(dateLayout, p.EndDate)
	if err != nil {
		return 1
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// FormatBudget renders the budget with its currency symbol for display and
// prompts, e.g. "USD 2,000".
func (p TravelPreferences) FormatBudget() string {
	unit, err := currency.ParseISO(p.Currency)
	if err != nil {
		return fmt.Sprintf("%s %s", p.Budget, p.Currency)
	}
	amount, err := strconv.ParseFloat(p.Budget, 64)
	if err != nil {
		return fmt.Sprintf("%s %s", p.Budget, p.Currency)
	}
	printer := message.NewPrinter(language.English)
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}
