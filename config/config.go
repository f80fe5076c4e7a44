package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config настройки сервиса детекции дефектов
type Config struct {
	Port   string // порт HTTP API
	Device string // имя устройства инференса (cuda/cpu)

	InferenceURL   string // адрес сервиса инференса; пусто — локальный gocv-детектор
	InferenceSlots int    // число одновременных вызовов инференса (по числу устройств)
	BatchWorkers   int    // число воркеров пакетной обработки

	AnomalyThreshold          float64 // порог первой ступени
	DefectConfidenceThreshold float64 // порог уверенности классификации

	MinDefectPixels     int     // минимум пикселей в связной области
	MinDefectPercentage float64 // минимальная доля пикселей класса (0.005 = 0.5%)
	MinBBoxArea         int     // минимальная площадь рамки

	BatchDBPath string // путь к базе сводок по пачкам
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                      getEnv("PORT", "5000"),
		Device:                    getEnv("DEVICE", "cpu"),
		InferenceURL:              os.Getenv("INFERENCE_URL"),
		InferenceSlots:            getEnvInt("INFERENCE_SLOTS", 1),
		BatchWorkers:              getEnvInt("BATCH_WORKERS", 4),
		AnomalyThreshold:          getEnvFloat("ANOMALY_THRESHOLD", 0.7),
		DefectConfidenceThreshold: getEnvFloat("DEFECT_THRESHOLD", 0.85),
		MinDefectPixels:           getEnvInt("MIN_DEFECT_PIXELS", 50),
		MinDefectPercentage:       getEnvFloat("MIN_DEFECT_PERCENTAGE", 0.005),
		MinBBoxArea:               getEnvInt("MIN_BBOX_AREA", 100),
		BatchDBPath:               getEnv("BATCH_DB_PATH", "outputs/batches.db"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
