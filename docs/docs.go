// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/tenant": {
            "get": {"tags": ["public"], "summary": "Course profile for the request host", "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown host"}}}
        },
        "/tee-times": {
            "get": {
                "tags": ["public"], "summary": "Bookable tee times for a date",
                "parameters": [{"name": "date", "in": "query", "required": true, "type": "string", "format": "date"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid date"}}
            }
        },
        "/closures": {
            "get": {
                "tags": ["public"], "summary": "Closed dates in a month",
                "parameters": [
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "month", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bookings": {
            "post": {
                "tags": ["bookings"], "summary": "Book a tee time as a golfer or a guest",
                "responses": {
                    "201": {"description": "Booked"},
                    "400": {"description": "Invalid input"},
                    "404": {"description": "Tee time not found"},
                    "422": {"description": "Not enough spots remaining"},
                    "429": {"description": "Guest rate limit"},
                    "503": {"description": "Contended, retry"}
                }
            }
        },
        "/bookings/my": {
            "get": {"tags": ["bookings"], "summary": "Bookings of the signed-in golfer", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a golfer", "responses": {"201": {"description": "Created"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/admin/tee-times/bulk": {
            "post": {
                "tags": ["admin"], "summary": "Generate tee times over a date range", "security": [{"Bearer": []}],
                "parameters": [{"name": "async", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "Generated"}, "202": {"description": "Queued"}}
            }
        },
        "/admin/bookings/{id}/status": {
            "put": {
                "tags": ["admin"], "summary": "Change a booking status", "security": [{"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid transition"}}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Fairway Tee Time API",
	Description:      "Multi-tenant golf tee time booking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
