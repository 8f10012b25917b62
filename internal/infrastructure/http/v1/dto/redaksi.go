package dto

// RedaksiRequest for create and update of text templates.
type RedaksiRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}
