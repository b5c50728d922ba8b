package paging

import "math"

const (
	DefaultSize = 10
	MaxSize     = 100
	// MaxPage keeps Page*MaxSize and the 1-based response page inside int.
	MaxPage = math.MaxInt32
)

// Request is zero-based, like the page query parameter.
type Request struct {
	Page int
	Size int
}

// Normalize applies the default size and caps it at MaxSize.
func (r Request) Normalize() Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	return r
}

func (r Request) Offset() int {
	return r.Page * r.Size
}

type Page[T any] struct {
	Items []T
	Total int
	Request
}

// Pages is the number of pages needed to hold Total items.
func (p Page[T]) Pages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}
