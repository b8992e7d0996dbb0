package nav

import "errors"

var (
	// ErrOutOfBounds indicates a lookup outside the graph lattice.
	ErrOutOfBounds = errors.New("nav: coordinate out of bounds")
	// ErrEmptyGraph indicates non-positive graph dimensions.
	ErrEmptyGraph = errors.New("nav: graph must have at least one column and one row")
	// ErrNilHeightFunc indicates Build was called without a height source.
	ErrNilHeightFunc = errors.New("nav: height function is nil")
	// ErrNilGraph indicates a search on a nil graph.
	ErrNilGraph = errors.New("nav: graph is nil")
	// ErrForeignNode indicates a start or goal node that does not belong to the searched graph.
	ErrForeignNode = errors.New("nav: node does not belong to graph")
	// ErrInvalidCostModel indicates negative or non-finite cost parameters.
	ErrInvalidCostModel = errors.New("nav: invalid cost model")
)
