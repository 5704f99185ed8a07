package dto

// SubmitJobRequest - постановка анализа места в очередь
type SubmitJobRequest struct {
	Place     string `json:"place" validate:"required,min=1,max=200"`
	ProfileID string `json:"profile_id,omitempty" validate:"omitempty,max=64"`
	Policy    string `json:"policy,omitempty" validate:"omitempty,planting_policy"`
	Refresh   bool   `json:"refresh,omitempty"`
}
