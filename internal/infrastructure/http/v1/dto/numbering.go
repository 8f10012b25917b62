package dto

import "github.com/rzkdmln/sicakap/internal/domain/numbering"

// BookNumberResponse for POST /book-reg-number.
type BookNumberResponse struct {
	RegNumber int    `json:"reg_number"`
	Status    string `json:"status"` // "new" or "existing"
}

// NumberRequest carries the number for release/confirm calls.
type NumberRequest struct {
	RegNumber int `json:"reg_number" binding:"required"`
}

// SwitchDateRequest for POST /switch-date.
type SwitchDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// SwitchDateResponse reports the active-date change.
type SwitchDateResponse struct {
	CurrentDate    string `json:"current_date"`
	PreviousDate   string `json:"previous_date"`
	RegNumberReset bool   `json:"reg_number_reset"`
}

// ResetDayResponse for POST /reset-daily-numbers.
type ResetDayResponse struct {
	ResetDate       string `json:"reset_date"`
	ClearedBookings int    `json:"cleared_bookings"`
}

// SettingsResponse mirrors the allocator settings snapshot.
type SettingsResponse struct {
	StartNumber      int    `json:"start_number"`
	EndNumber        int    `json:"end_number"`
	CurrentNumber    int    `json:"current_number"`
	MaxUsedNumber    int    `json:"max_used_number"`
	BookedCount      int    `json:"booked_count"`
	RemainingNumbers int    `json:"remaining_numbers"`
	CurrentDate      string `json:"current_date"`
}

// FromSettings maps the domain snapshot.
func FromSettings(s *numbering.Settings) SettingsResponse {
	return SettingsResponse{
		StartNumber:      s.StartNumber,
		EndNumber:        s.EndNumber,
		CurrentNumber:    s.CurrentNumber,
		MaxUsedNumber:    s.MaxUsedNumber,
		BookedCount:      s.BookedCount,
		RemainingNumbers: s.RemainingNumbers,
		CurrentDate:      s.CurrentDate,
	}
}

// UpdateSettingsRequest for POST /settings.
type UpdateSettingsRequest struct {
	StartNumber int `json:"start_number" binding:"required,min=1"`
	EndNumber   int `json:"end_number" binding:"required,min=1"`
}
