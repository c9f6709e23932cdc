package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application runtime configuration.
type Config struct {
	Env               string
	HTTPPort          string
	DatabaseURL       string
	DBMaxConns        int
	DBMaxConnIdle     time.Duration
	DBConnectTimeout  time.Duration
	DefaultCurrency   string
	JWTSecret         string
	PublicBaseURL     string
	UploadDir         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	GoogleClientID    string
	FirebaseProjectID string
	FirebaseCredFile  string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	CORSOrigins       []string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	StoreName    string
	StoreAddress string
	StoreLat     float64
	StoreLon     float64

	DeliveryMaxRadiusKm float64
	DeliveryRouteFactor float64
	ExcludedCities      []string
	BlockedCEPPrefix    string
	DeliveryFee1Km      float64
	DeliveryFee2Km      float64
	DeliveryFeeMax      float64

	CEPLookupURL     string
	CEPLookupTimeout time.Duration
	WhatsAppNumber   string

	ImageMaxWidth    int
	ImageJPEGQuality int
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxConns:        getInt("DB_MAX_CONNS", 10),
		DBMaxConnIdle:     getDuration("DB_MAX_CONN_IDLE", 5*time.Minute),
		DBConnectTimeout:  getDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		DefaultCurrency:   getEnv("CURRENCY_CODE", "BRL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PublicBaseURL:     strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		AccessTokenTTL:    getDuration("ACCESS_TOKEN_TTL", 12*time.Hour),
		RefreshTokenTTL:   getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredFile:  os.Getenv("FIREBASE_CREDENTIALS"),
		ReadTimeout:       getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:       getList("CORS_ORIGINS", []string{"*"}),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),

		StoreName:    getEnv("STORE_NAME", "AÇAÍ DO LUCCA"),
		StoreAddress: getEnv("STORE_ADDRESS", "Vila Cisper, São Paulo"),
		StoreLat:     getFloat("STORE_LAT", -23.49102257465869),
		StoreLon:     getFloat("STORE_LON", -46.49390912179673),

		DeliveryMaxRadiusKm: getFloat("DELIVERY_MAX_RADIUS_KM", 3),
		DeliveryRouteFactor: getFloat("DELIVERY_ROUTE_FACTOR", 1.35),
		ExcludedCities:      getList("DELIVERY_EXCLUDED_CITIES", []string{"guarulhos"}),
		BlockedCEPPrefix:    getEnv("DELIVERY_BLOCKED_PREFIX", "03828"),
		DeliveryFee1Km:      getFloat("DELIVERY_FEE_1KM", 3.99),
		DeliveryFee2Km:      getFloat("DELIVERY_FEE_2KM", 4.99),
		DeliveryFeeMax:      getFloat("DELIVERY_FEE_MAX", 5.99),

		CEPLookupURL:     getEnv("CEP_LOOKUP_URL", "https://cep.awesomeapi.com.br/json/"),
		CEPLookupTimeout: getDuration("CEP_LOOKUP_TIMEOUT", 5*time.Second),
		WhatsAppNumber:   getEnv("WHATSAPP_NUMBER", "5511988170539"),

		ImageMaxWidth:    getInt("IMAGE_MAX_WIDTH", 500),
		ImageJPEGQuality: getInt("IMAGE_JPEG_QUALITY", 70),
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.Replace(val, ",", ".", 1), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
