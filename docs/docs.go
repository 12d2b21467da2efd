// Package docs registers the OpenAPI description served at /swagger.
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
        "/vote": {
            "post": {
                "tags": ["votes"],
                "summary": "Submit a vote (unified body)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/results/{question_code}": {
            "get": {
                "tags": ["votes"],
                "summary": "Aggregated tally for a question",
                "parameters": [{"name": "question_code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/categories": {
            "get": {
                "tags": ["catalog"],
                "summary": "List categories",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users": {
            "post": {
                "tags": ["users"],
                "summary": "Register a participant",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Poll Service API",
	Description:      "A RESTful API for catalog browsing, vote submission and aggregated results",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
