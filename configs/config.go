package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	RedisAddr         string
	ServerPort        string
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	CORSOrigins       []string
	UploadDir         string
	SweepInterval     time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()

	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	sweepMinutes, err := strconv.Atoi(os.Getenv("SWEEP_INTERVAL_MINUTES"))
	if err != nil || sweepMinutes <= 0 {
		sweepMinutes = 60
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		RedisAddr:         redisAddr,
		ServerPort:        os.Getenv("SERVER_PORT"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CORSOrigins:       origins,
		UploadDir:         uploadDir,
		SweepInterval:     time.Duration(sweepMinutes) * time.Minute,
	}
}
