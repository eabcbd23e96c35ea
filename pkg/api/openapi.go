package api

import (
	"net/http"

	"github.com/openarchive/depot/pkg/httputil"
	"github.com/openarchive/depot/pkg/resource"
)

// openAPIDocument serves GET /openapi.json: an OpenAPI 3 description of
// the resource routes, generated from the schema registry
func (s *Server) openAPIDocument(w http.ResponseWriter, r *http.Request) {
	doc := map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "depot",
			"description": "Archival storage registry: locations, packages, spaces and pipelines with declarative search.",
			"version":     "1.0.0",
		},
		"paths": s.openAPIPaths(),
	}
	httputil.WriteSuccess(w, doc)
}

func (s *Server) openAPIPaths() map[string]interface{} {
	paths := make(map[string]interface{})

	for _, name := range s.engine.Registry().Names() {
		t, err := s.engine.Registry().Describe(name)
		if err != nil {
			continue
		}

		paths["/"+name+"/"] = collectionPathItem(t)
		paths["/"+name+"/{uuid}/"] = map[string]interface{}{
			"get": map[string]interface{}{
				"summary": "Fetch one " + name + " record by primary key",
				"parameters": []interface{}{
					map[string]interface{}{
						"name":     "uuid",
						"in":       "path",
						"required": true,
						"schema":   map[string]interface{}{"type": "string", "format": "uuid"},
					},
				},
				"responses": map[string]interface{}{
					"200": jsonResponse("The record"),
					"404": jsonResponse("Unknown record"),
				},
			},
		}

		if !t.Searchable {
			continue
		}
		paths["/"+name+"/search/"] = map[string]interface{}{
			"post": searchOperation(name),
		}
		paths["/"+name+"/new_search/"] = map[string]interface{}{
			"get": map[string]interface{}{
				"summary": "Describe the searchable attributes of " + name,
				"responses": map[string]interface{}{
					"200": jsonResponse("Attributes and permitted operators"),
				},
			},
		}
	}

	return paths
}

func collectionPathItem(t *resource.Type) map[string]interface{} {
	item := map[string]interface{}{
		"get": map[string]interface{}{
			"summary": "List " + t.Name + " records",
			"parameters": []interface{}{
				map[string]interface{}{
					"name":   "page",
					"in":     "query",
					"schema": map[string]interface{}{"type": "integer", "minimum": 1},
				},
				map[string]interface{}{
					"name":   "items_per_page",
					"in":     "query",
					"schema": map[string]interface{}{"type": "integer", "minimum": 1},
				},
			},
			"responses": map[string]interface{}{
				"200": jsonResponse("The records"),
				"400": jsonResponse("Invalid pagination"),
			},
		},
	}
	return item
}

func searchOperation(name string) map[string]interface{} {
	return map[string]interface{}{
		"summary": "Search " + name + " records with a declarative filter",
		"requestBody": map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"query": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"filter":   map[string]interface{}{},
									"order_by": map[string]interface{}{"type": "array"},
								},
							},
							"paginator": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"page":           map[string]interface{}{"type": "integer", "minimum": 1},
									"items_per_page": map[string]interface{}{"type": "integer", "minimum": 1},
								},
							},
						},
					},
				},
			},
		},
		"responses": map[string]interface{}{
			"200": jsonResponse("Matching records"),
			"400": jsonResponse("Invalid filter, ordering or pagination"),
			"504": jsonResponse("Query timed out"),
		},
	}
}

func jsonResponse(description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{},
		},
	}
}
