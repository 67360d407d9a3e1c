package metrics

// HealthPolicy — веса и штрафы интегральной оценки здоровья батча.
//
// score = SuccessRate*SuccessWeight
//       + max(0, RetryWeight - RetryPenalty*TotalRetries)
//       + max(0, ErrorWeight - ErrorPenalty*TotalErrors)
//
// Штрафуются суммарные retry и ошибки батча, без нормализации
// на число jobs. Результат обрезается в [0, 100]. Пустой батч
// считается здоровым (100).
type HealthPolicy struct {
	SuccessWeight float64
	RetryWeight   float64
	RetryPenalty  float64
	ErrorWeight   float64
	ErrorPenalty  float64
}

// DefaultHealthPolicy — веса 60/20/20 со штрафами 2x за retry
// и 5x за ошибку.
func DefaultHealthPolicy() HealthPolicy {
	return HealthPolicy{
		SuccessWeight: 60,
		RetryWeight:   20,
		RetryPenalty:  2,
		ErrorWeight:   20,
		ErrorPenalty:  5,
	}
}

func healthScore(s *Summary, p HealthPolicy) float64 {
	if s.TotalJobs == 0 {
		return 100
	}

	score := s.SuccessRate * p.SuccessWeight

	retryPart := p.RetryWeight - p.RetryPenalty*float64(s.TotalRetries)
	if retryPart < 0 {
		retryPart = 0
	}
	score += retryPart

	errorPart := p.ErrorWeight - p.ErrorPenalty*float64(s.TotalErrors)
	if errorPart < 0 {
		errorPart = 0
	}
	score += errorPart

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
