package models

// Counts is the dashboard summary shown on /home
type Counts struct {
	Posts int `json:"posts"`
	Pages int `json:"pages"`
	Media int `json:"media"`
}
