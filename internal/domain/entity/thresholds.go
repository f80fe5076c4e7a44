package entity

// ThresholdConfig пороги принятия решений.
// Передаётся по значению: каждый прогон пайплайна работает со снимком,
// сделанным в момент старта.
type ThresholdConfig struct {
	AnomalyThreshold          float64 // порог первой ступени (GOOD/DEFECT)
	DefectConfidenceThreshold float64 // порог уверенности классификации
}
