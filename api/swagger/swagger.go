package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Candidate Validation Queue API",
        "description": "Back-office queue for manual validation of hiring-process candidates",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Queue", "description": "Prioritized candidate queue"},
        {"name": "Validation", "description": "Validate/rollback workflow and audit trail"},
        {"name": "Productivity", "description": "Per-analyst productivity counters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/queue": {
            "get": {
                "tags": ["Queue"],
                "summary": "List the candidate queue",
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "description": "pending (default) or history"},
                    {"name": "q", "in": "query", "type": "string", "description": "Search term matched against name, CPF or code"},
                    {"name": "status", "in": "query", "type": "string", "description": "Exact hiring status; 'all' disables"},
                    {"name": "admitted_from", "in": "query", "type": "string", "description": "Admission date lower bound (YYYY-MM-DD)"},
                    {"name": "admitted_to", "in": "query", "type": "string", "description": "Admission date upper bound (YYYY-MM-DD)"},
                    {"name": "responsible", "in": "query", "type": "string", "description": "Comma separated responsible analysts"},
                    {"name": "sort", "in": "query", "type": "string", "description": "Column key for explicit sort"},
                    {"name": "dir", "in": "query", "type": "string", "description": "asc or desc"}
                ],
                "responses": {
                    "200": {"description": "Queue slice", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/queue/refresh": {
            "post": {
                "tags": ["Queue"],
                "summary": "Manually refresh the queue snapshot",
                "responses": {
                    "204": {"description": "Refreshed"},
                    "502": {"description": "Load failed, previous snapshot retained"}
                }
            }
        },
        "/api/v1/candidates/{code}/validate": {
            "post": {
                "tags": ["Validation"],
                "summary": "Validate a candidate",
                "parameters": [
                    {"name": "code", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Validation event created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing session timestamp or reason"}
                }
            }
        },
        "/api/v1/candidates/{code}/events": {
            "get": {
                "tags": ["Validation"],
                "summary": "List a candidate's validation events",
                "parameters": [
                    {"name": "code", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Events, latest first", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events/{id}/rollback": {
            "post": {
                "tags": ["Validation"],
                "summary": "Roll back a validation event",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RollbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "Event closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already rolled back"}
                }
            }
        },
        "/api/v1/productivity": {
            "get": {
                "tags": ["Productivity"],
                "summary": "Productivity counters for all analysts",
                "responses": {
                    "200": {"description": "Aggregates", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/productivity/{analyst}": {
            "get": {
                "tags": ["Productivity"],
                "summary": "Productivity counters for one analyst",
                "parameters": [
                    {"name": "analyst", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Aggregate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ValidateRequest": {
            "type": "object",
            "properties": {
                "firstViewAt": {"type": "string", "format": "date-time"},
                "reason": {"type": "string"}
            }
        },
        "RollbackRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
