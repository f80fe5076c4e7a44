package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"defect-detector/internal/domain/entity"
)

// RemoteGateway клиент сервиса инференса, где живут настоящие модели
// (Anomalib и HRNet за HTTP). Сюда приходят байты изображения,
// обратно — JSON с оценкой или картой классов.
type RemoteGateway struct {
	serviceURL string
	device     string
	client     *http.Client
}

// anomalyResponse ответ сервиса на /infer/anomaly
type anomalyResponse struct {
	AnomalyScore float64 `json:"anomaly_score"`
	Mask         *struct {
		Width  int       `json:"width"`
		Height int       `json:"height"`
		Values []float32 `json:"values"`
	} `json:"mask"`
}

// segmentationResponse ответ сервиса на /infer/segmentation
type segmentationResponse struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Pixels     []uint8   `json:"pixels"`
	Confidence []float32 `json:"confidence"`
}

// NewRemoteGateway создаёт клиент сервиса инференса.
func NewRemoteGateway(serviceURL, device string) *RemoteGateway {
	if serviceURL == "" {
		serviceURL = "http://localhost:5002"
	}

	return &RemoteGateway{
		serviceURL: serviceURL,
		device:     device,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AnomalyInfer запрашивает оценку аномальности у сервиса инференса.
func (g *RemoteGateway) AnomalyInfer(ctx context.Context, imageData []byte) (*entity.AnomalyScore, error) {
	body, err := g.post(ctx, "/infer/anomaly", imageData, nil)
	if err != nil {
		return nil, err
	}

	var parsed anomalyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode anomaly response: %v", entity.ErrInference, err)
	}

	score := &entity.AnomalyScore{Score: parsed.AnomalyScore}
	if parsed.Mask != nil {
		score.Mask = &entity.AnomalyMask{
			Width:  parsed.Mask.Width,
			Height: parsed.Mask.Height,
			Values: parsed.Mask.Values,
		}
	}
	return score, nil
}

// SegmentationInfer запрашивает карту классов. Маска аномалий уходит
// отдельной JSON-частью как подсказка по области.
func (g *RemoteGateway) SegmentationInfer(ctx context.Context, imageData []byte, mask *entity.AnomalyMask) (*entity.ClassMap, error) {
	body, err := g.post(ctx, "/infer/segmentation", imageData, mask)
	if err != nil {
		return nil, err
	}

	var parsed segmentationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode segmentation response: %v", entity.ErrInference, err)
	}
	if parsed.Width*parsed.Height != len(parsed.Pixels) {
		return nil, fmt.Errorf("%w: class map size mismatch", entity.ErrInference)
	}

	return &entity.ClassMap{
		Width:      parsed.Width,
		Height:     parsed.Height,
		Pixels:     parsed.Pixels,
		Confidence: parsed.Confidence,
	}, nil
}

// Ready проверяет сервис инференса health-запросом.
func (g *RemoteGateway) Ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.serviceURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Device возвращает устройство, на котором развёрнут сервис инференса.
func (g *RemoteGateway) Device() string {
	return g.device
}

// post отправляет изображение (и опциональную маску) multipart-запросом.
func (g *RemoteGateway) post(ctx context.Context, path string, imageData []byte, mask *entity.AnomalyMask) ([]byte, error) {
	if len(imageData) == 0 {
		return nil, entity.ErrInvalidInput
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("write image data: %w", err)
	}

	if mask != nil {
		maskJSON, err := json.Marshal(mask)
		if err != nil {
			return nil, fmt.Errorf("encode mask: %w", err)
		}
		if err := writer.WriteField("mask", string(maskJSON)); err != nil {
			return nil, fmt.Errorf("write mask field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.serviceURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: inference service not reachable: %v", entity.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", entity.ErrInference, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return payload, nil
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidInput, string(payload))
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: %s", entity.ErrModelUnavailable, string(payload))
	default:
		return nil, fmt.Errorf("%w: status %d: %s", entity.ErrInference, resp.StatusCode, string(payload))
	}
}
