package engine

import "errors"

// ErrRetrievalMiss reports that no relevant passages were found for a
// query. Callers surface this to the user instead of generating an
// unsupported answer.
var ErrRetrievalMiss = errors.New("no relevant passages found for this query")

// ErrEmptyQuery reports a blank or whitespace-only query.
var ErrEmptyQuery = errors.New("query cannot be empty")
