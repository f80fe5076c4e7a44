package api

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"defect-detector/internal/container"
	"defect-detector/internal/domain/entity"
	"defect-detector/internal/logger"
)

// Server тонкий HTTP-слой над конвейером детекции.
// Вся бизнес-логика живёт в application, здесь только разбор запросов.
type Server struct {
	engine    *gin.Engine
	container *container.Container
}

// NewServer создаёт HTTP-сервер с маршрутами API.
func NewServer(c *container.Container) *Server {
	s := &Server{
		engine:    gin.Default(),
		container: c,
	}

	s.engine.Use(corsMiddleware())

	apiRoutes := s.engine.Group("/api")
	{
		apiRoutes.GET("/health", s.health)
		apiRoutes.GET("/system-info", s.systemInfo)
		apiRoutes.POST("/detect-image", s.detectImage)
		apiRoutes.POST("/batch-detect", s.batchDetect)
		apiRoutes.POST("/update-thresholds", s.updateThresholds)
		apiRoutes.GET("/batches", s.listBatches)
	}

	return s
}

// Run запускает HTTP-сервер на указанном порту.
func (s *Server) Run(port string) error {
	return s.engine.Run(":" + port)
}

// Handler отдаёт маршрутизатор для встраивания и тестов.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// corsMiddleware открывает API для мобильного клиента.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// health проверка живости сервиса и готовности детектора
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"detector_ready": s.container.Gateway.Ready(c.Request.Context()),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// systemInfo сведения о системе: устройство, пороги, известные классы
func (s *Server) systemInfo(c *gin.Context) {
	thresholds := s.container.Thresholds.Get()
	ready := s.container.Gateway.Ready(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"device":            s.container.Gateway.Device(),
			"models_loaded":     ready,
			"system_ready":      ready,
			"anomaly_threshold": thresholds.AnomalyThreshold,
			"defect_threshold":  thresholds.DefectConfidenceThreshold,
			"supported_classes": entity.SupportedClassNames(),
		},
	})
}

// detectImageRequest тело запроса с base64-изображением
type detectImageRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// detectImage основная точка: одно изображение, полный прогон конвейера
func (s *Server) detectImage(c *gin.Context) {
	imageData, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.container.Pipeline.Run(c.Request.Context(), imageData, "")
	if err != nil {
		logger.Error(c.Request.Context(), "detection failed", err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.container.Formatter.Format(result))
}

// batchDetectRequest тело запроса пакетной детекции
type batchDetectRequest struct {
	Images []string `json:"images"`
}

// batchDetect пакетная детекция: ошибка одного изображения не валит пачку
func (s *Server) batchDetect(c *gin.Context) {
	var request batchDetectRequest
	if err := c.ShouldBindJSON(&request); err != nil || len(request.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	}

	// Нечитаемый base64 превращаем в пустые байты: конвейер посчитает
	// такое изображение ошибкой обработки, не прерывая остальных.
	images := make([][]byte, len(request.Images))
	for i, encoded := range request.Images {
		decoded, err := decodeBase64Image(encoded)
		if err != nil {
			continue
		}
		images[i] = decoded
	}

	outcome, err := s.container.Batch.ProcessBatch(c.Request.Context(), images)
	if err != nil {
		logger.Error(c.Request.Context(), "batch detection failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summary := outcome.Record.Summary
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"batch_id": outcome.Record.ID,
		"summary": gin.H{
			"total_images":       summary.TotalImages,
			"good_products":      summary.GoodProducts,
			"defective_products": summary.DefectiveProducts,
			"defect_rate":        summary.DefectRate,
		},
		"results": outcome.Results,
	})
}

// updateThresholdsRequest тело запроса обновления порогов
type updateThresholdsRequest struct {
	AnomalyThreshold *float64 `json:"anomaly_threshold"`
	DefectThreshold  *float64 `json:"defect_threshold"`
}

// updateThresholds меняет пороги на лету; идущие прогоны не затрагиваются
func (s *Server) updateThresholds(c *gin.Context) {
	var request updateThresholdsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no data provided"})
		return
	}

	updated := s.container.Thresholds.Update(request.AnomalyThreshold, request.DefectThreshold)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Thresholds updated successfully",
		"thresholds": gin.H{
			"anomaly_threshold": updated.AnomalyThreshold,
			"defect_threshold":  updated.DefectConfidenceThreshold,
		},
	})
}

// listBatches последние сводки по пачкам из хранилища
func (s *Server) listBatches(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := s.container.BatchRepo.List(c.Request.Context(), limit)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list batches", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "batches": records})
}

// readImage достаёт изображение из multipart-файла или из base64 в JSON.
func readImage(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		opened, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer opened.Close()

		return io.ReadAll(opened)
	}

	var request detectImageRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.ImageBase64 == "" {
		return nil, entity.ErrInvalidInput
	}

	return decodeBase64Image(request.ImageBase64)
}

// decodeBase64Image декодирует base64, отрезая data:image-префикс.
func decodeBase64Image(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, "data:image") {
		if idx := strings.Index(encoded, ","); idx != -1 {
			encoded = encoded[idx+1:]
		}
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// statusForError сопоставляет класс ошибки конвейера HTTP-статусу.
func statusForError(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
