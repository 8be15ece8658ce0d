package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly    Cadence = "weekly"
	Biweekly  Cadence = "biweekly"
	Monthly   Cadence = "monthly"
	Quarterly Cadence = "quarterly"
	Yearly    Cadence = "yearly"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// Cadence is the recurrence rule of an obligation.
	Cadence string

	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// RecurringObligation is a recurring bill or subscription definition,
	// independent of any single billing instance.
	RecurringObligation struct {
		ID        int64
		Name      string
		Category  string
		Amount    Money // estimated/nominal amount per occurrence
		Cadence   Cadence
		StartDate Date
		EndDate   Date // zero when open-ended
		Active    bool
	}

	// Transaction is a single recorded income or expense entry.
	Transaction struct {
		ID       int64
		Type     TransactionType
		Amount   Money
		Date     Date
		Category string
		Source   string // income source or payment channel
	}

	// Goal is a savings target tracked by the user.
	Goal struct {
		ID      int64
		Name    string
		Kind    string // e.g. "emergency_fund", "savings"
		Target  Money
		Current Money
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyName          = errors.New("empty name")
	ErrUnknownCadence     = errors.New("unknown cadence")
	ErrObligationNotFound = errors.New("obligation not found")
	ErrEntryNotFound      = errors.New("bill history entry not found")
)

// Valid reports whether the cadence is one of the supported recurrence rules.
func (c Cadence) Valid() bool {
	switch c {
	case Weekly, Biweekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is zero (for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (o RecurringObligation) Validate() error {
	if err := o.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}

	if !o.EndDate.IsZero() {
		if err := o.EndDate.Validate(); err != nil {
			return errors.New("invalid end date: " + err.Error())
		}
		if o.EndDate.Before(o.StartDate.Time) {
			return errors.New("end date must not be before start date")
		}
	}

	if !o.Cadence.Valid() {
		return ErrUnknownCadence
	}

	if len(strings.TrimSpace(o.Name)) == 0 {
		return ErrEmptyName
	}
	if len(o.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}

	if err := o.Amount.Validate(); err != nil {
		return err
	}

	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	switch t.Type {
	case Income, Expense:
	default:
		return errors.New("invalid transaction type")
	}
	return t.Amount.Validate()
}

// Progress returns completion as a fraction of the target, 0 when the
// target is unset. A zero target is a "no signal" case, not an error.
func (g Goal) Progress() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	return float64(g.Current.Cents) / float64(g.Target.Cents)
}
