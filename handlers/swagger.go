package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monirportfolio/portfolio-server/internal/resource"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON built from the resource kinds
func RegisterSwagger(r gin.IRouter) {
	doc := openAPIDoc(resource.Kinds())
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>portfolio-server — Swagger</title>
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

var (
	objectBody = gin.H{"content": gin.H{"application/json": gin.H{"schema": gin.H{"type": "object", "additionalProperties": true}}}}
	idParam    = []gin.H{{"name": "id", "in": "path", "required": true, "schema": gin.H{"type": "string", "pattern": "^[0-9a-fA-F]{24}$"}}}
)

func openAPIDoc(kinds []resource.Kind) gin.H {
	paths := gin.H{
		"/": gin.H{"get": gin.H{"summary": "Liveness string", "responses": gin.H{"200": gin.H{"description": "running"}}}},
		"/login": gin.H{"post": gin.H{
			"summary": "Check a user name and password",
			"requestBody": gin.H{"content": gin.H{"application/json": gin.H{"schema": gin.H{
				"type":       "object",
				"properties": gin.H{"userName": gin.H{"type": "string"}, "password": gin.H{"type": "string"}},
			}}}},
			"responses": gin.H{
				"200": gin.H{"description": "Login successful, with token and expiresIn when tokens are enabled"},
				"400": gin.H{"description": "malformed body"},
				"401": gin.H{"description": "Invalid username or password"},
				"429": gin.H{"description": "rate limited"},
				"500": gin.H{"description": "Internal server error"},
			},
		}},
		"/health":  gin.H{"get": gin.H{"summary": "Liveness check", "responses": gin.H{"200": gin.H{"description": "healthy"}}}},
		"/ready":   gin.H{"get": gin.H{"summary": "Readiness check", "responses": gin.H{"200": gin.H{"description": "ready"}, "503": gin.H{"description": "not ready"}}}},
		"/metrics": gin.H{"get": gin.H{"summary": "Prometheus metrics", "responses": gin.H{"200": gin.H{"description": "text exposition"}}}},
	}
	for _, k := range kinds {
		paths[k.ListPath] = gin.H{"get": gin.H{
			"tags":      []string{k.Plural},
			"summary":   "List " + k.Plural,
			"responses": gin.H{"200": gin.H{"description": k.ListMessage()}, "500": gin.H{"description": "store fault"}},
		}}
		paths[k.CreatePath] = gin.H{"post": gin.H{
			"tags":        []string{k.Plural},
			"summary":     "Create a " + k.CreateNoun,
			"requestBody": objectBody,
			"responses":   gin.H{"200": gin.H{"description": k.CreatedMessage()}, "400": gin.H{"description": "body is not an object"}, "500": gin.H{"description": k.NotCreatedMessage()}},
		}}
		item := openAPIPath(k.ItemPath)
		paths[item] = gin.H{
			"patch": gin.H{
				"tags":        []string{k.Plural},
				"summary":     "Merge fields into a " + k.Singular,
				"parameters":  idParam,
				"requestBody": objectBody,
				"responses":   gin.H{"200": gin.H{"description": k.UpdatedMessage()}, "404": gin.H{"description": k.NotUpdatedMessage()}, "500": gin.H{"description": "Internal server error"}},
			},
			"delete": gin.H{
				"tags":       []string{k.Plural},
				"summary":    "Delete a " + k.Singular,
				"parameters": idParam,
				"responses":  gin.H{"200": gin.H{"description": k.DeletedMessage()}, "404": gin.H{"description": k.NotDeletedMessage()}, "500": gin.H{"description": "store fault"}},
			},
		}
	}
	return gin.H{
		"openapi": "3.0.0",
		"info":    gin.H{"title": "portfolio-server", "version": "v1.0.0"},
		"paths":   paths,
	}
}

// openAPIPath turns gin's ":id" segments into "{id}".
func openAPIPath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		if strings.HasPrefix(s, ":") {
			parts[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}
