package models

type AnalyticsSummary struct {
	Total          int `json:"total"`
	AddedWeek      int `json:"added_week"`
	CompletedWeek  int `json:"completed_week"`
	CompletedToday int `json:"completed_today"`
}
