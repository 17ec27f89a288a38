package config

import "os"

type Config struct {
	Port                string
	DatabaseURL         string
	JWTSecret           string
	AdminEmail          string
	FirebaseCredentials string
	FirebaseWebAPIKey   string
	BackendURL          string
	CORSAllowedOrigins  string
}

func Load() Config {
	return Config{
		Port:                getenv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminEmail:          getenv("ADMIN_EMAIL", "admin@admin.cl"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),
		FirebaseWebAPIKey:   os.Getenv("FIREBASE_WEB_API_KEY"),
		BackendURL:          os.Getenv("BACKEND_URL"),
		CORSAllowedOrigins:  os.Getenv("CORS_ALLOWED_ORIGINS"),
	}
}

// UseFirestore reports whether the process should talk to the hosted store
// instead of the local SQL-backed one.
func (c Config) UseFirestore() bool {
	return c.FirebaseCredentials != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
