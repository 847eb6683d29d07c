// Package docs registers the OpenAPI document of the dashboard API with swag.
// Regenerate with: swag init -g internal/api/router.go -o internal/api/docs
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
        "/dashboard/selection": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Change the selected user",
                "parameters": [
                    {
                        "description": "Selector change",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.selectionRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.snapshotResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/dashboard/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Current dashboard state",
                "parameters": [
                    {
                        "enum": ["mean_time_weekday", "presence_weekday", "presence_start_end"],
                        "type": "string",
                        "description": "Dashboard view",
                        "name": "view",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.snapshotResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/dashboard/ws": {
            "get": {
                "description": "Upgrades to a websocket. The server sends a snapshot after every state change; the page sends {\"type\":\"selection.change\",\"user_id\":\"...\"}.",
                "tags": ["dashboard"],
                "summary": "Dashboard state stream",
                "parameters": [
                    {
                        "enum": ["mean_time_weekday", "presence_weekday", "presence_start_end"],
                        "type": "string",
                        "description": "Dashboard view",
                        "name": "view",
                        "in": "query"
                    }
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.selectionRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "view": {"type": "string", "enum": ["mean_time_weekday", "presence_weekday", "presence_start_end"]}
            }
        },
        "handler.snapshotResponse": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "view": {"type": "string"},
                "version": {"type": "integer"},
                "phase": {"type": "string"},
                "selection": {"type": "string"},
                "nav_selected": {"type": "string"},
                "selector": {"type": "object"},
                "loading": {"type": "object"},
                "photo": {"type": "object"},
                "chart": {"type": "object"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
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
	Title:            "Presence Dashboard API",
	Description:      "Selection-driven presence dashboard: user catalog, photo and presence charts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
