package query

// DefaultItemsPerPage is used when a paginator is requested without an
// explicit page size
const DefaultItemsPerPage = 20

// Pagination selects one 1-indexed page of an ordered result sequence
type Pagination struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"items_per_page"`
}

// Validate rejects out-of-range pagination before any records are fetched.
// Values are never silently clamped.
func (p Pagination) Validate() error {
	if p.Page < 1 {
		return &InvalidPaginationError{Reason: "page must be a positive integer"}
	}
	if p.ItemsPerPage < 1 {
		return &InvalidPaginationError{Reason: "items_per_page must be a positive integer"}
	}
	return nil
}

// PageInfo describes the slice that was taken. Count is the post-filter,
// pre-slice cardinality.
type PageInfo struct {
	Count        int `json:"count"`
	Page         int `json:"page"`
	ItemsPerPage int `json:"items_per_page"`
}

// Paginate slices an ordered sequence into one page. A page beyond the end
// yields an empty item list, not an error.
func Paginate(records []Record, p Pagination) ([]Record, PageInfo, error) {
	if err := p.Validate(); err != nil {
		return nil, PageInfo{}, err
	}
	info := PageInfo{
		Count:        len(records),
		Page:         p.Page,
		ItemsPerPage: p.ItemsPerPage,
	}
	offset := (p.Page - 1) * p.ItemsPerPage
	if offset >= len(records) {
		return []Record{}, info, nil
	}
	end := offset + p.ItemsPerPage
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end], info, nil
}
