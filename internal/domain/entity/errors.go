package entity

import "errors"

// Классы ошибок пайплайна. Деление важно для внешнего слоя:
// ErrModelUnavailable фатальна до устранения, остальные — на один запрос.
var (
	// ErrModelUnavailable модели не загружены или недоступны
	ErrModelUnavailable = errors.New("model is not available")

	// ErrInvalidInput изображение отсутствует или не читается
	ErrInvalidInput = errors.New("invalid input image")

	// ErrInference модель упала во время вызова
	ErrInference = errors.New("inference failed")
)
