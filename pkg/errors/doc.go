// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// The summarization engine reports its failure modes through dedicated codes:
// ErrCodeEmptyResult when nothing is left to summarize, ErrCodeUnsupportedScheme
// for unknown reduction schemes and ErrCodeMalformedOrder for order selections
// that do not fit the pivoted table. Callers test for them with HasCode:
//
//	tbl, err := s.Summarize(opts)
//	if errors.HasCode(err, errors.ErrCodeEmptyResult) {
//	    return fmt.Errorf("no results found")
//	}
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInternal,
//	    "failed to insert record",
//	    cause,
//	    map[string]interface{}{
//	        "collection": "runs",
//	        "metric": "rmse-",
//	    },
//	)
package errors
