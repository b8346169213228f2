package resource

const (
	DefaultPageSize = 20
	MaxPageSize     = 2000
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortOrder struct {
	Property  string
	Direction Direction
}

// PageRequest selects one zero-based page. Sort is handed to the store as is.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

func (p PageRequest) normalized() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of records preceding the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is what the store returns for a PageRequest.
type Page[T any] struct {
	Items         []*T
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// TotalPages is the number of pages needed for total records at size per page.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// PageMeta is the navigation metadata returned next to a page body.
type PageMeta struct {
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	First         int
	Last          int
	// Prev and Next are nil when there is no such page.
	Prev *int
	Next *int
}

func MetaOf[T any](p Page[T]) PageMeta {
	meta := PageMeta{
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         0,
		Last:          0,
	}
	if p.TotalPages > 0 {
		meta.Last = p.TotalPages - 1
	}
	if p.Page+1 < p.TotalPages {
		next := p.Page + 1
		meta.Next = &next
	}
	if p.Page > 0 {
		prev := p.Page - 1
		meta.Prev = &prev
	}
	return meta
}
