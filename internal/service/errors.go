package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorKind is the stable, machine-readable cause of a domain failure.
type ErrorKind string

const (
	KindInsufficientStock      ErrorKind = "insufficient_stock"
	KindMissingDensity         ErrorKind = "missing_density"
	KindMissingCustomMapping   ErrorKind = "missing_custom_mapping"
	KindUnresolvableConversion ErrorKind = "unresolvable_conversion"
	KindContention             ErrorKind = "contention"
	KindValidation             ErrorKind = "validation"
	KindInternal               ErrorKind = "internal"
)

// DomainError is implemented by every expected business failure.
type DomainError interface {
	error
	Kind() ErrorKind
}

// KindOf returns the kind of the first DomainError in err's chain, or
// KindInternal for anything else.
func KindOf(err error) ErrorKind {
	var de DomainError
	if errors.As(err, &de) {
		return de.Kind()
	}
	return KindInternal
}

// Retryable reports whether err may succeed when retried unchanged.
func Retryable(err error) bool {
	return KindOf(err) == KindContention
}

// Shortage is one item that could not be satisfied.
type Shortage struct {
	ItemID    string          `json:"item_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
	Unit      string          `json:"unit"`
}

type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("item %s short %s %s (requested %s, available %s)",
			s.ItemID, s.Shortfall, s.Unit, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Kind() ErrorKind { return KindInsufficientStock }

type MissingDensityError struct {
	ItemID   string
	FromUnit string
	ToUnit   string
}

func (e *MissingDensityError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("converting %s to %s requires an ingredient density", e.FromUnit, e.ToUnit)
	}
	return fmt.Sprintf("item %s has no density; cannot convert %s to %s", e.ItemID, e.FromUnit, e.ToUnit)
}

func (e *MissingDensityError) Kind() ErrorKind { return KindMissingDensity }

type MissingCustomMappingError struct {
	Unit   string
	ItemID string
}

func (e *MissingCustomMappingError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("custom unit %s has no resolvable mapping", e.Unit)
	}
	return fmt.Sprintf("custom unit %s has no resolvable mapping for item %s", e.Unit, e.ItemID)
}

func (e *MissingCustomMappingError) Kind() ErrorKind { return KindMissingCustomMapping }

type UnresolvableConversionError struct {
	FromUnit string
	ToUnit   string
	Reason   string
}

func (e *UnresolvableConversionError) Error() string {
	msg := fmt.Sprintf("no conversion from %s to %s", e.FromUnit, e.ToUnit)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnresolvableConversionError) Kind() ErrorKind { return KindUnresolvableConversion }

// ContentionError means a concurrent mutation won; retrying is always safe.
type ContentionError struct {
	Op  string
	Err error
}

func (e *ContentionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("contention during %s: %v", e.Op, e.Err)
	}
	return "contention during " + e.Op
}

func (e *ContentionError) Unwrap() error { return e.Err }

func (e *ContentionError) Kind() ErrorKind { return KindContention }

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: field '%s' %s", e.Field, e.Message)
}

func (e *ValidationError) Kind() ErrorKind { return KindValidation }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
