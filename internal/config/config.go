package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret string
	JWTTTL    time.Duration

	// Reservation engine
	ReservationTTL     time.Duration // pending hold lifetime
	MaxSlotsPerBooking int           // duration cap in hourly slots
	SweepInterval      time.Duration // background expiry sweep period

	// Default coverage for studios with zero availability rules,
	// weekdays only. Minutes from midnight.
	DefaultOpenMinute  int
	DefaultCloseMinute int

	// Payment gateway (Robokassa-compatible signed redirect)
	GatewayMerchantLogin string
	GatewayPassword1     string
	GatewayPassword2     string
	GatewayBaseURL       string
	GatewayResultURL     string
	GatewaySuccessURL    string
	GatewayFailURL       string
	GatewayTestMode      bool

	// CORS
	AllowedOrigins []string

	// Logging
	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", "studiobook.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		ReservationTTL:     getEnvDuration("RESERVATION_TTL", 15*time.Minute),
		MaxSlotsPerBooking: getEnvInt("MAX_SLOTS_PER_BOOKING", 5),
		SweepInterval:      getEnvDuration("SWEEP_INTERVAL", 30*time.Second),

		DefaultOpenMinute:  getEnvInt("DEFAULT_OPEN_MINUTE", 9*60),
		DefaultCloseMinute: getEnvInt("DEFAULT_CLOSE_MINUTE", 18*60),

		GatewayMerchantLogin: getEnv("GATEWAY_MERCHANT_LOGIN", ""),
		GatewayPassword1:     getEnv("GATEWAY_PASSWORD1", ""),
		GatewayPassword2:     getEnv("GATEWAY_PASSWORD2", ""),
		GatewayBaseURL:       getEnv("GATEWAY_BASE_URL", "https://auth.robokassa.ru/Merchant/Index.aspx"),
		GatewayResultURL:     getEnv("GATEWAY_RESULT_URL", ""),
		GatewaySuccessURL:    getEnv("GATEWAY_SUCCESS_URL", ""),
		GatewayFailURL:       getEnv("GATEWAY_FAIL_URL", ""),
		GatewayTestMode:      getEnvBool("GATEWAY_IS_TEST", true),

		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvSlice(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
