package api

import "github.com/openarchive/depot/pkg/query"

// SearchRequest is the body shared by both search entry points:
// SEARCH /{resource}/ and POST /{resource}/search/
type SearchRequest struct {
	Query     QueryBody         `json:"query"`
	Paginator *query.Pagination `json:"paginator,omitempty"`
}

// QueryBody carries the raw filter and ordering expressions exactly as
// decoded from JSON; validation happens in the query engine
type QueryBody struct {
	Filter  interface{} `json:"filter,omitempty"`
	OrderBy interface{} `json:"order_by,omitempty"`
}

// PagedResponse wraps result items with page info. Unpaginated listings
// return a bare JSON array instead.
type PagedResponse struct {
	Paginator *query.PageInfo `json:"paginator"`
	Items     []query.Record  `json:"items"`
}
