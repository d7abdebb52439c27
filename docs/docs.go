// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/api/v1/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Current home state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HomeState"}}}
            }
        },
        "/api/v1/presence": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Current presence judgment",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/presence.Judgment"}}}
            }
        },
        "/api/v1/connection": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Connection health",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ConnectionResponse"}}}
            }
        },
        "/api/v1/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Recent notifications",
                "responses": {"200": {"description": "count, notifications", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/toggle/{device}": {
            "post": {
                "description": "Forwards to the home server. The new state arrives later over the socket.",
                "produces": ["application/json"],
                "tags": ["control"],
                "summary": "Toggle an actuator",
                "parameters": [
                    {"enum": ["light", "door", "heat"], "type": "string", "description": "Actuator", "name": "device", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/temp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["control"],
                "summary": "Set temperature",
                "parameters": [
                    {"description": "Temperature", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.TemperatureRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/history": {
            "get": {
                "description": "Changes recorded by this dashboard. If 'to' is date-only, it is treated as end-of-day inclusive.",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Recorded state changes",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "name": "to", "in": "query"},
                    {"enum": ["TEMPERATURE", "LIGHT", "DOOR", "HEAT"], "type": "string", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/history/remote": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Remote event history",
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/devices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "List devices",
                "parameters": [{"type": "string", "description": "Search name, type or IP", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "count, devices", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/workflows": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "List workflows",
                "parameters": [{"type": "string", "description": "Search name, description or trigger", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "count, workflows", "schema": {"type": "object"}}}
            }
        },
        "/ws": {
            "get": {
                "description": "Upgrades to a WebSocket and pushes a \"dashboard\" envelope immediately, then every interval.",
                "tags": ["dashboard"],
                "summary": "Live dashboard stream",
                "parameters": [
                    {"type": "string", "description": "Push period, e.g. 500ms (max 10s)", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Push period in ms (max 10000)", "name": "interval_ms", "in": "query"}
                ],
                "responses": {}
            }
        }
    },
    "definitions": {
        "models.HomeState": {
            "type": "object",
            "properties": {
                "temperature": {"type": "string"},
                "light": {"type": "boolean"},
                "door": {"type": "boolean"},
                "heat": {"type": "boolean"}
            }
        },
        "presence.Judgment": {
            "type": "object",
            "properties": {
                "is_present": {"type": "boolean"},
                "confidence": {"type": "string", "enum": ["low", "medium", "high"]},
                "reason": {"type": "string"},
                "score": {"type": "integer"},
                "last_activity": {"type": "string"}
            }
        },
        "handlers.ConnectionResponse": {
            "type": "object",
            "properties": {
                "is_connected": {"type": "boolean"},
                "connection_error": {"type": "string"},
                "reconnect_attempt": {"type": "integer"},
                "badge": {"type": "string", "example": "Connected"}
            }
        },
        "handlers.TemperatureRequest": {
            "type": "object",
            "required": ["temp"],
            "properties": {
                "temp": {"type": "string", "example": "21.5"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MyHouse dashboard API",
	Description:      "Live mirror of the home server's state with presence estimation and control proxying.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
