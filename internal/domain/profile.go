package domain

import "time"

// Profile - сессия калибровки: диапазоны цветов по классам
type Profile struct {
	ID             string         `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Ranges         Ranges         `json:"ranges" db:"-"`
	LowPercentile  float64        `json:"low_percentile" db:"low_percentile"`
	HighPercentile float64        `json:"high_percentile" db:"high_percentile"`
	Pad            HSV            `json:"pad" db:"-"`
	CenterFraction float64        `json:"center_fraction" db:"center_fraction"`
	SampleCounts   map[string]int `json:"sample_counts,omitempty" db:"-"`
	Warnings       []string       `json:"warnings,omitempty" db:"-"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// Classes returns the class names covered by the profile.
func (p *Profile) Classes() []string {
	return p.Ranges.Classes()
}
