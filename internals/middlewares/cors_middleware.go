// file: internals/middlewares/cors_middleware.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"schoolku_backend/internals/configs"
)

// defaultCorsOrigins dipakai kalau CORS_ALLOWED_ORIGINS tidak di-set:
// dev lokal + frontend admin produksi.
var defaultCorsOrigins = []string{
	"http://localhost:5173",
	"https://schoolku-web-production.up.railway.app",
}

// corsAllowedOrigins parse daftar origin comma-separated dari env;
// entry kosong dibuang, list kosong jatuh ke default.
func corsAllowedOrigins(raw string) string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = defaultCorsOrigins
	}
	return strings.Join(origins, ", ")
}

// CorsMiddleware membuat middleware CORS; origin diambil dari env supaya
// deployment lain tidak perlu rebuild.
func CorsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     corsAllowedOrigins(configs.GetEnv("CORS_ALLOWED_ORIGINS", "")),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
