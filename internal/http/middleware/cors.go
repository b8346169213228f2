package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:8080",
	"http://localhost:9000",
	"http://localhost:4200",
	"http://127.0.0.1:8080",
	"http://127.0.0.1:9000",
	"http://127.0.0.1:4200",
}

// CORS allows the given origins, or the local dev origins when none are configured.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders:    []string{"Link", "X-Total-Count", "Location", "X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
	})
}
