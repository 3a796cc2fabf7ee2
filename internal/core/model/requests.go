package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nama     string `json:"nama"`
	Role     string `json:"role,omitempty"`
}

// RegisteredUser is the reduced user record returned by registration.
type RegisteredUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Nama  string `json:"nama"`
	Role  string `json:"role"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type UpdateStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type CreatePresensiRequest struct {
	UserID     string         `json:"user_id"`
	Nama       string         `json:"nama"`
	Status     StatusPresensi `json:"status"`
	Keterangan string         `json:"keterangan,omitempty"`
	Latitude   *float64       `json:"latitude,omitempty"`
	Longitude  *float64       `json:"longitude,omitempty"`
	Alamat     string         `json:"alamat,omitempty"`
}

type UpdatePresensiRequest struct {
	Status     StatusPresensi `json:"status,omitempty"`
	Keterangan *string        `json:"keterangan,omitempty"`
}

// PresensiFilter narrows a presensi listing. Zero values are left out of
// the query string.
type PresensiFilter struct {
	UserID    string
	Status    StatusPresensi
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// Location is the optional body of check-in and check-out calls.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
