package dto

import "github.com/rzkdmln/sicakap/internal/domain/pencatatan"

// CreatePencatatanRequest for POST /pencatatan.
type CreatePencatatanRequest struct {
	RegNumber   int    `json:"reg_number" binding:"required"`
	RegDate     string `json:"reg_date" binding:"required"`
	ServiceCode string `json:"service_code"`
	NIK         string `json:"nik" binding:"required"`
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	NoSKPWNI    string `json:"no_skpwni"`
	NoSKDWNI    string `json:"no_skdwni"`
	NoKK        string `json:"no_kk"`
	NoSKBWNI    string `json:"no_skbwni"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// ToDomain maps the request to the domain record.
func (r CreatePencatatanRequest) ToDomain() *pencatatan.Pencatatan {
	return &pencatatan.Pencatatan{
		RegNumber:   r.RegNumber,
		RegDate:     r.RegDate,
		ServiceCode: r.ServiceCode,
		NIK:         r.NIK,
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
		NoSKPWNI:    r.NoSKPWNI,
		NoSKDWNI:    r.NoSKDWNI,
		NoKK:        r.NoKK,
		NoSKBWNI:    r.NoSKBWNI,
		Status:      r.Status,
		Notes:       r.Notes,
	}
}

// UpdatePencatatanRequest for PUT /pencatatan/:id. Same shape as create,
// reg_number and reg_date stay immutable on update.
type UpdatePencatatanRequest struct {
	ServiceCode string `json:"service_code"`
	NIK         string `json:"nik" binding:"required"`
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	NoSKPWNI    string `json:"no_skpwni"`
	NoSKDWNI    string `json:"no_skdwni"`
	NoKK        string `json:"no_kk"`
	NoSKBWNI    string `json:"no_skbwni"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// ListPencatatanQuery binds the list filter query parameters.
type ListPencatatanQuery struct {
	Search      string `form:"search"`
	Status      string `form:"status"`
	ServiceCode string `form:"service_code"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
}

// ToFilter maps the query to the domain filter.
func (q ListPencatatanQuery) ToFilter() pencatatan.Filter {
	return pencatatan.Filter{
		Search:      q.Search,
		Status:      q.Status,
		ServiceCode: q.ServiceCode,
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		Page:        q.Page,
		PerPage:     q.PerPage,
	}
}
