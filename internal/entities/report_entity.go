package entities

// Bucket — одна строка распределения (GROUP BY ... COUNT(*)).
type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// UserAnalytics — сводная статистика по пользователям для админки.
type UserAnalytics struct {
	TotalUsers           int64    `json:"totalUsers"`
	AverageAge           float64  `json:"averageAge"`
	GenderDistribution   []Bucket `json:"genderDistribution"`
	CountryDistribution  []Bucket `json:"countryDistribution"`
	AgeDistribution      []Bucket `json:"ageDistribution"`
	LanguageDistribution []Bucket `json:"languageDistribution"`
	TimezoneDistribution []Bucket `json:"timezoneDistribution"`
	RegistrationTrend    []Bucket `json:"registrationTrend"`
}
