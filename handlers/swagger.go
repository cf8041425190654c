package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>xterics-api — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the public API surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "xterics-api", "version": "v0.1.0" },
  "paths": {
    "/api/oauth/login": { "get": { "summary": "Start Google OAuth login", "responses": { "302": { "description": "redirect to Google" } } } },
    "/api/oauth/callback": { "get": { "summary": "OAuth callback", "responses": { "302": { "description": "session cookie set, redirect home" }, "400": { "description": "state or code invalid" } } } },
    "/api/oauth/logout": { "post": { "summary": "Clear session cookie", "responses": { "200": { "description": "logged out" } } } },
    "/api/auth/me": { "get": { "summary": "Current user, or null when anonymous", "responses": { "200": { "description": "user payload" } } } },
    "/api/services": { "get": { "summary": "List active design services", "responses": { "200": { "description": "service list" } } } },
    "/api/services/{id}": { "get": { "summary": "Get a design service", "responses": { "200": { "description": "service" }, "404": { "description": "not found" } } } },
    "/api/portfolio": { "get": { "summary": "List published portfolio projects", "responses": { "200": { "description": "project list" } } } },
    "/api/portfolio/featured": { "get": { "summary": "Featured portfolio projects", "responses": { "200": { "description": "project list" } } } },
    "/api/orders": {
      "post": { "summary": "Place an order (guest or signed-in)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"serviceId":{"type":"integer"},"clientName":{"type":"string"},"clientEmail":{"type":"string"},"description":{"type":"string"}}}}}}, "responses": { "201": { "description": "order created" }, "400": { "description": "invalid input" } } },
      "get": { "summary": "List the signed-in user's orders", "responses": { "200": { "description": "order list" }, "403": { "description": "no session" } } }
    },
    "/api/custom-orders": {
      "post": { "summary": "Request a bespoke quote", "responses": { "201": { "description": "custom order created" } } },
      "get": { "summary": "List the signed-in user's custom orders", "responses": { "200": { "description": "custom order list" } } }
    },
    "/api/payments/methods": { "get": { "summary": "List payment methods", "responses": { "200": { "description": "methods" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
