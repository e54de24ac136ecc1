package models

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer credential issued on successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// ListMeta is the pagination envelope of a VM list response.
type ListMeta struct {
	// TotalPages is the number of pages available for the current
	// search term at the server's fixed page size.
	TotalPages int `json:"totalPages"`
}

// VMList is the body of GET /vms: one page of records plus pagination meta.
type VMList struct {
	Items []VM     `json:"items"`
	Meta  ListMeta `json:"meta"`
}
