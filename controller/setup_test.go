package controller_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/accessledger/util"
)

const requestingUserID = "admin@example.com"

type routes interface {
	RegisterRoutes(r *gin.RouterGroup)
}

func setupRouter(controllers ...routes) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Anonymous") == "" {
			c.Set(util.ContextUserIDKey, requestingUserID)
		}
		c.Next()
	})
	api := r.Group("/")
	for _, ctrl := range controllers {
		ctrl.RegisterRoutes(api)
	}
	return r
}

func serve(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
