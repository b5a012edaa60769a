package docs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OpenAPI specification served at /openapi.json
const openapiJSON = `{
  "openapi": "3.0.3",
  "info": {
    "title": "EduBridge API",
    "version": "1.0.0"
  },
  "servers": [ { "url": "/" } ],
  "tags": [
    {"name": "users", "description": "Students and companies"},
    {"name": "tasks", "description": "Company micro-tasks"},
    {"name": "submissions", "description": "Task submissions and grading"},
    {"name": "portfolio", "description": "Verified student portfolios"},
    {"name": "edupoints", "description": "EduPoints ledger"}
  ],
  "components": {
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
    },
    "parameters": {
      "id": {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}},
      "userId": {"name": "user_id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}
    }
  },
  "paths": {
    "/": {
      "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
    },
    "/users": {
      "get": {"summary": "List users", "tags": ["users"], "responses": {"200": {"description": "OK"}}},
      "post": {"summary": "Create a user", "tags": ["users"], "requestBody": {"required": true}, "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
    },
    "/users/me": {
      "get": {"summary": "Current user", "tags": ["users"], "security": [{"bearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
    },
    "/users/{id}": {
      "get": {"summary": "Get user with skills", "tags": ["users"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
    },
    "/users/{id}/skills": {
      "patch": {"summary": "Replace skills", "tags": ["users"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}},
      "post": {"summary": "Add skills", "tags": ["users"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}},
      "delete": {"summary": "Remove skills", "tags": ["users"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/tasks": {
      "get": {"summary": "List tasks", "tags": ["tasks"], "responses": {"200": {"description": "OK"}}},
      "post": {"summary": "Create a task", "tags": ["tasks"], "requestBody": {"required": true}, "responses": {"200": {"description": "OK"}, "403": {"description": "Not a company"}}}
    },
    "/tasks/company/{companyId}": {
      "get": {"summary": "Tasks posted by a company", "tags": ["tasks"], "parameters": [{"name": "companyId", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"description": "OK"}}}
    },
    "/tasks/{id}": {
      "get": {"summary": "Get task", "tags": ["tasks"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
    },
    "/tasks/{id}/submissions": {
      "get": {"summary": "Submissions for a task", "tags": ["tasks"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/submissions": {
      "post": {"summary": "Submit work (multipart task_id + file)", "tags": ["submissions"], "security": [{"bearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not a student"}}}
    },
    "/submissions/{id}": {
      "get": {"summary": "Get submission", "tags": ["submissions"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/submissions/{id}/files": {
      "get": {"summary": "Submission files", "tags": ["submissions"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/submissions/task/{id}": {
      "get": {"summary": "Submissions by task", "tags": ["submissions"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/submissions/user/{id}": {
      "get": {"summary": "Submissions by student", "tags": ["submissions"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/submissions/{id}/status": {
      "patch": {"summary": "Set review status", "tags": ["submissions"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/submissions/{id}/grade": {
      "patch": {"summary": "Grade a submission", "tags": ["submissions"], "parameters": [{"$ref": "#/components/parameters/id"}], "responses": {"200": {"description": "OK"}}}
    },
    "/portfolio": {
      "post": {"summary": "Add an eligible submission", "tags": ["portfolio"], "requestBody": {"required": true}, "responses": {"200": {"description": "OK"}}}
    },
    "/portfolio/{user_id}": {
      "get": {"summary": "Student portfolio", "tags": ["portfolio"], "parameters": [{"$ref": "#/components/parameters/userId"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not a student"}}}
    },
    "/edupoints/award": {
      "post": {"summary": "Award points", "tags": ["edupoints"], "requestBody": {"required": true}, "responses": {"200": {"description": "OK"}}}
    },
    "/edupoints/redeem": {
      "post": {"summary": "Redeem points", "tags": ["edupoints"], "requestBody": {"required": true}, "responses": {"200": {"description": "OK"}, "400": {"description": "Insufficient balance"}}}
    },
    "/edupoints/{user_id}": {
      "get": {"summary": "Ledger and balance", "tags": ["edupoints"], "parameters": [{"$ref": "#/components/parameters/userId"}], "responses": {"200": {"description": "OK"}}}
    }
  }
}`

// RegisterRoutes wires the API documentation endpoints into the Gin engine.
// - GET /openapi.json: OpenAPI 3.0 document
// - GET /docs: Swagger UI (via CDN) loading /openapi.json
func RegisterRoutes(r gin.IRoutes) {
	r.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(openapiJSON))
	})
	r.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>EduBridge API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.json',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
