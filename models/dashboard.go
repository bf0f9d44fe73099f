package models

// DashboardStats - агрегаты для дашборда админки. Глобальные или в разрезе
// одного события, в зависимости от запрошенного фильтра.
type DashboardStats struct {
	TotalParticipants    int `json:"total_participants"`
	PendingChecks        int `json:"pending_checks"`
	ApprovedParticipants int `json:"approved_participants"`
	RejectedParticipants int `json:"rejected_participants"`
	MaleCount            int `json:"male_count"`
	FemaleCount          int `json:"female_count"`
	TotalSelections      int `json:"total_selections"`
	MutualMatches        int `json:"mutual_matches"`
}
