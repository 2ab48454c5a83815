// Package docs registers the OpenAPI description served under /swagger/*.
// Handler annotations in internal/api/handler are the source for
// `swag init -g cmd/users-api/main.go`; this file is what it regenerates.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Current identity", "responses": {"200": {"description": "OK"}}}},
        "/users": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a user by id", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update a user's profile", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/users/{id}/role": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Assign a role", "responses": {"200": {"description": "OK"}}}},
        "/users/{id}/disable": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Disable a user", "responses": {"200": {"description": "OK"}}}},
        "/users/{id}/enable": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Enable a user", "responses": {"200": {"description": "OK"}}}},
        "/users/{id}/change-password": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Change a user's password", "responses": {"200": {"description": "OK"}}}},
        "/v1/calls": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["calls"], "summary": "List recent calls", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["calls"], "summary": "Log a call", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/calls/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["calls"], "summary": "Get a call", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["calls"], "summary": "Delete a call", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/calls/{id}/analysis": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["analysis"], "summary": "Latest analysis of a call", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["analysis"], "summary": "Analyse a call", "responses": {"200": {"description": "OK"}, "202": {"description": "Accepted"}, "409": {"description": "Conflict"}}}
        },
        "/v1/operators/{name}/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["operators"], "summary": "Operator statistics", "responses": {"200": {"description": "OK"}}}},
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CallCoach API",
	Description:      "Users, authentication and call analysis services.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
