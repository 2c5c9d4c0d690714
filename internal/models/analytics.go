package models

// TestAnalytics aggregates scores over every attempt of a test. Score values
// are nil while no attempt carries a score.
type TestAnalytics struct {
	TestID        uint          `json:"test_id"`
	AverageScore  *float64      `json:"average_score"`
	HighestScore  *float64      `json:"highest_score"`
	LowestScore   *float64      `json:"lowest_score"`
	TotalAttempts int64         `json:"total_attempts"`
	QuestionStats []interface{} `json:"question_stats"`
	TopicStats    []interface{} `json:"topic_stats"`
}
