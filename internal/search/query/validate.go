package query

import (
	"github.com/lukegrady1/Roomify/internal/search/domain"
)

// Validate reports cross-field inconsistencies. Each error names the field
// a caller should drop or fix.
func Validate(f domain.SearchFilters) []domain.FieldError {
	var errs []domain.FieldError
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		errs = append(errs, domain.FieldError{
			Field:   KeyMax,
			Message: "maximum price must be greater than or equal to minimum price",
		})
	}
	if f.Start != nil && f.End != nil && !f.End.After(*f.Start) {
		errs = append(errs, domain.FieldError{
			Field:   KeyEnd,
			Message: "end date must be after start date",
		})
	}
	return errs
}

// Normalize returns f with every field rejected by Validate removed, along
// with the errors that caused the removal.
func Normalize(f domain.SearchFilters) (domain.SearchFilters, []domain.FieldError) {
	errs := Validate(f)
	for _, e := range errs {
		switch e.Field {
		case KeyMax:
			f.Max = nil
		case KeyEnd:
			f.End = nil
		}
	}
	return f, errs
}

// Degradations maps Normalize errors to the degradation reasons reported
// alongside a search result.
func Degradations(errs []domain.FieldError) []domain.Degradation {
	var out []domain.Degradation
	for _, e := range errs {
		switch e.Field {
		case KeyMax:
			out = append(out, domain.DegradeMaxDropped)
		case KeyEnd:
			out = append(out, domain.DegradeEndDropped)
		}
	}
	return out
}
