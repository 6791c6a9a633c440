// Package docs registers the Swagger document with swag so that the
// swagger UI and the OpenAPI 3 endpoint can serve it.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and the JWT token."
        }
    },
    "paths": {
        "/auth/callback": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Exchange a validated token for the user profile, provisioning on first login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Get the authenticated user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Get the user profile and settings",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Update display name or preferred currency",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/currencies": {
            "get": {
                "tags": ["profile"],
                "summary": "List supported currencies",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "List expenses, newest first",
                "parameters": [{"name": "month", "in": "query", "type": "string", "description": "YYYY-MM or 'all'"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid month"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Create an expense",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/expenses/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Get an expense",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Update an expense",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Delete an expense",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/expenses/{id}/receipt": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Get presigned receipt image URLs",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Upload a receipt image for an expense",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "receipt", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Receipt storage not configured"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Delete the receipt attached to an expense",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/incomes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "List incomes, newest first",
                "parameters": [{"name": "month", "in": "query", "type": "string", "description": "YYYY-MM or 'all'"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid month"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "Create an income",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/incomes/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "Get an income",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "Update an income",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "Delete an income",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/goals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["goals"],
                "summary": "List savings goals, oldest first",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["goals"],
                "summary": "Create a savings goal",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/goals/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["goals"],
                "summary": "Get a savings goal",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["goals"],
                "summary": "Update a savings goal",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["goals"],
                "summary": "Delete a savings goal, detaching linked expenses",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/goals/{id}/funds": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["goals"],
                "summary": "Add funds to a goal, recording a matching savings expense",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Funding could not be recorded"}
                }
            }
        },
        "/budget-rules": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "List budget rules, default first",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "Create a budget rule whose category percentages sum to 100",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/budget-rules/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "Get a single budget rule",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "Update a budget rule",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Default rule is immutable"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "Delete a budget rule, falling back the active rule to the default",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Default rule is immutable"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/budget-rules/active": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "Get the active budget rule",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "Set the active budget rule",
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/budget-rules/evaluation": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["budget-rules"],
                "summary": "Evaluate the active rule against income and spending for a month",
                "parameters": [{"name": "month", "in": "query", "type": "string", "description": "YYYY-MM or 'all'"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid month"}
                }
            }
        },
        "/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["summary"],
                "summary": "Dashboard totals, category breakdown and six month history",
                "parameters": [{"name": "month", "in": "query", "type": "string", "description": "YYYY-MM or 'all'"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid month"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Centavo API",
	Description:      "Personal finance tracking API: expenses, incomes, savings goals, budget rules and dashboard summaries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
