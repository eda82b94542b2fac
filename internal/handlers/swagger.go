package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
<style>body { margin: 0; }</style>
</head>
<body>
<div id="docs"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.onload = () => {
  window.ui = SwaggerUIBundle({
    url: {{.SpecURL}},
    dom_id: "#docs",
    deepLinking: true,
    persistAuthorization: true,
    docExpansion: "list",
    tagsSorter: "alpha",
    requestInterceptor: (req) => {
      const auth = req.headers.Authorization;
      if (auth && !auth.startsWith("Bearer ")) {
        req.headers.Authorization = "Bearer " + auth;
      }
      return req;
    },
  });
};
</script>
</body>
</html>
`))

type docsPageData struct {
	Title   string
	SpecURL string
}

// APIDocs renders Swagger UI over the generated document at specURL. Tokens
// pasted into the Authorize dialog get their missing "Bearer " prefix.
func APIDocs(specURL string) gin.HandlerFunc {
	data := docsPageData{Title: "Croptrack API", SpecURL: specURL}
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := docsPage.Execute(c.Writer, data); err != nil {
			c.Error(err)
		}
	}
}
