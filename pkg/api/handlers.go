package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/openarchive/depot/pkg/httputil"
	"github.com/openarchive/depot/pkg/query"
	"github.com/openarchive/depot/pkg/resource"
)

// listHandler serves GET /{resource}/. Without pagination parameters it
// returns the complete collection as a bare array in default order; with
// page or items_per_page it returns a paged envelope.
func (s *Server) listHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := query.Query{}

		pageParam := r.URL.Query().Get("page")
		perPageParam := r.URL.Query().Get("items_per_page")
		if pageParam != "" || perPageParam != "" {
			page, err := httputil.ParseQueryInt(r, "page", 1)
			if err != nil {
				httputil.WriteBadRequest(w, err.Error())
				return
			}
			perPage, err := httputil.ParseQueryInt(r, "items_per_page", query.DefaultItemsPerPage)
			if err != nil {
				httputil.WriteBadRequest(w, err.Error())
				return
			}
			q.Paginator = &query.Pagination{Page: page, ItemsPerPage: perPage}
		}

		s.execute(w, r, name, q)
	}
}

// getHandler serves GET /{resource}/{uuid}/
func (s *Server) getHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := httputil.ParsePathStringOrError(w, r, "uuid")
		if !ok {
			return
		}

		rec, err := s.engine.GetByKey(r.Context(), name, key)
		if err != nil {
			s.writeQueryError(w, r, err)
			return
		}
		httputil.WriteSuccess(w, rec)
	}
}

// searchHandler serves SEARCH /{resource}/ and POST /{resource}/search/;
// both accept the same body and behave identically
func (s *Server) searchHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if !httputil.ParseJSONOrError(w, r, &req) {
			return
		}

		s.execute(w, r, name, query.Query{
			Filter:    req.Query.Filter,
			OrderBy:   req.Query.OrderBy,
			Paginator: req.Paginator,
		})
	}
}

// newSearchHandler serves GET /{resource}/new_search/: the searchable
// attributes and permitted operators of the resource
func (s *Server) newSearchHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := s.engine.SearchParameters(name)
		if err != nil {
			s.writeQueryError(w, r, err)
			return
		}
		httputil.WriteSuccess(w, params)
	}
}

// execute runs a query through the engine and writes the response,
// recording query metrics
func (s *Server) execute(w http.ResponseWriter, r *http.Request, name string, q query.Query) {
	start := time.Now()
	result, err := s.engine.Execute(r.Context(), name, q)
	s.metrics.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.QueriesTotal.WithLabelValues(name, "error").Inc()
		s.writeQueryError(w, r, err)
		return
	}
	s.metrics.QueriesTotal.WithLabelValues(name, "ok").Inc()

	if result.Paginator != nil {
		httputil.WriteSuccess(w, PagedResponse{
			Paginator: result.Paginator,
			Items:     result.Items,
		})
		return
	}
	httputil.WriteSuccess(w, result.Items)
}

// writeQueryError maps engine errors onto HTTP statuses: validation
// failures are 400, missing resources and records 404, deadline failures
// 504, backend failures 503, anything else 500.
func (s *Server) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unknownResource *resource.UnknownResourceError
		notFound        *query.NotFoundError
		unknownField    *query.UnknownFieldError
		badOperator     *query.UnsupportedOperatorError
		typeMismatch    *query.TypeMismatchError
		malformed       *query.MalformedExpressionError
		badPagination   *query.InvalidPaginationError
		timeout         *query.TimeoutError
		unavailable     *query.SourceUnavailableError
	)

	switch {
	case errors.As(err, &unknownResource), errors.As(err, &notFound):
		httputil.WriteNotFoundError(w, err.Error())
	case errors.As(err, &unknownField),
		errors.As(err, &badOperator),
		errors.As(err, &typeMismatch),
		errors.As(err, &malformed),
		errors.As(err, &badPagination):
		httputil.WriteBadRequest(w, err.Error())
	case errors.As(err, &timeout):
		s.logger.WithError(err).WithField("path", r.URL.Path).Warn("query timed out")
		httputil.WriteGatewayTimeout(w, err.Error())
	case errors.As(err, &unavailable):
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("record source unavailable")
		httputil.WriteServiceUnavailable(w, err.Error())
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("unhandled query error")
		httputil.WriteInternalError(w, err)
	}
}
