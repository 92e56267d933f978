package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the FloatChat API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	paginationParams := []map[string]interface{}{
		{
			"name":        "page",
			"in":          "query",
			"description": "Page number (default: 1)",
			"required":    false,
			"schema":      map[string]interface{}{"type": "integer", "default": 1},
		},
		{
			"name":        "limit",
			"in":          "query",
			"description": "Records per page (default: 100, max: 1000)",
			"required":    false,
			"schema":      map[string]interface{}{"type": "integer", "default": 100},
		},
	}

	queryRequestSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"region":                map[string]string{"type": "string"},
			"regions":               map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
			"lat_bounds":            map[string]interface{}{"type": "array", "items": map[string]string{"type": "number"}},
			"lon_bounds":            map[string]interface{}{"type": "array", "items": map[string]string{"type": "number"}},
			"date_range":            map[string]interface{}{"type": "array", "items": map[string]string{"type": "string", "format": "date"}},
			"depth_range":           map[string]interface{}{"type": "array", "items": map[string]string{"type": "number"}},
			"parameters":            map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
			"operation":             map[string]string{"type": "string"},
			"statistical_threshold": map[string]string{"type": "number"},
			"max_profiles":          map[string]string{"type": "integer"},
			"profile_type":          map[string]string{"type": "string"},
			"comparison_type":       map[string]string{"type": "string"},
			"time_periods": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "array", "items": map[string]string{"type": "string", "format": "date"}},
			},
		},
	}

	functionCallSchema := map[string]interface{}{
		"type":     "object",
		"required": []string{"function"},
		"properties": map[string]interface{}{
			"function": map[string]interface{}{
				"type": "string",
				"enum": []string{
					"query_aggregate_statistics",
					"detect_anomalies_and_trends",
					"query_profile_data",
					"compare_oceanographic_data",
					"get_data_summary",
				},
			},
			"arguments": queryRequestSchema,
		},
	}

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "FloatChat API",
			"description": "Oceanographic query platform over ARGO float data with PostgreSQL, a structured query template engine, and REST API",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "FloatChat Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/query": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Execute a structured query",
					"description": "Run one query function call against the ARGO measurement store",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": functionCallSchema,
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Query result with per-parameter records",
						},
						"400": map[string]interface{}{
							"description": "Malformed body, unknown function, or invalid range argument",
						},
					},
				},
			},
			"/api/query/batch": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Execute a batch of structured queries",
					"description": "Run a sequence of function calls and return per-call results with a batch summary",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"function_calls": map[string]interface{}{
											"type":  "array",
											"items": functionCallSchema,
										},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Batch results and outcome summary",
						},
						"400": map[string]interface{}{
							"description": "Malformed or empty batch",
						},
					},
				},
			},
			"/api/floats": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List ARGO floats",
					"description": "Retrieve the float catalog with pagination",
					"parameters":  paginationParams,
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Paginated float list",
						},
					},
				},
			},
			"/api/floats/{float_id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Get one float",
					"parameters": []map[string]interface{}{
						{
							"name":     "float_id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Float record"},
						"404": map[string]interface{}{"description": "Float not found"},
					},
				},
			},
			"/api/floats/{float_id}/profiles": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List a float's profiles",
					"parameters": append([]map[string]interface{}{
						{
							"name":     "float_id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
					}, paginationParams...),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Paginated profile list, newest first"},
						"404": map[string]interface{}{"description": "Float not found"},
					},
				},
			},
			"/api/profiles/{profile_id}/measurements": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List a profile's depth samples",
					"parameters": []map[string]interface{}{
						{
							"name":     "profile_id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "integer"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Depth samples ordered shallowest first"},
						"404": map[string]interface{}{"description": "Profile not found"},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and its store are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
						},
						"503": map[string]interface{}{
							"description": "Store unreachable",
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
