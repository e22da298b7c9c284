package models

type ClubStats struct {
	ClubID           string  `json:"clubId"`
	ClubName         string  `json:"clubName"`
	TotalGenerations int     `json:"totalGenerations"`
	UniqueClients    int     `json:"uniqueClients"`
	Percentage       float64 `json:"percentage"`
}

// ReportStats is the aggregate of one report. Records with an unknown club are not part of it.
type ReportStats struct {
	TotalRecords      int         `json:"totalRecords"`
	UniqueClients     int         `json:"uniqueClients"`
	LowAura           int         `json:"lowAura"`
	NormalAura        int         `json:"normalAura"`
	HighAura          int         `json:"highAura"`
	ClubStats         []ClubStats `json:"clubStats"`
	AvgGenerationTime float64     `json:"avgGenerationTime"`
	DoneCount         int         `json:"doneCount"`
	ProcessCount      int         `json:"processCount"`
	DonePercentage    float64     `json:"donePercentage"`
	ProcessPercentage float64     `json:"processPercentage"`
}

// AuraTotal is the number of records that landed in any aura bucket.
func (s *ReportStats) AuraTotal() int {
	return s.LowAura + s.NormalAura + s.HighAura
}

// Share returns part as a percentage of TotalRecords, 0 for an empty report.
func (s *ReportStats) Share(part int) float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(part) / float64(s.TotalRecords) * 100
}
