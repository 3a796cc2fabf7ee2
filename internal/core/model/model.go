package model

import (
	"time"
)

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// StatusPresensi is the attendance status recorded for a user on a given day.
type StatusPresensi string

const (
	StatusHadir     StatusPresensi = "hadir"
	StatusIzin      StatusPresensi = "izin"
	StatusSakit     StatusPresensi = "sakit"
	StatusAlpha     StatusPresensi = "alpha"
	StatusTerlambat StatusPresensi = "terlambat"
	StatusCuti      StatusPresensi = "cuti"
)

// Valid reports whether s is one of the known attendance statuses.
func (s StatusPresensi) Valid() bool {
	switch s {
	case StatusHadir, StatusIzin, StatusSakit, StatusAlpha, StatusTerlambat, StatusCuti:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nama      string    `json:"nama"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin is a shorthand used by the CLI to gate admin-only commands.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Lokasi struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Alamat    string  `json:"alamat"`
}

// Presensi is a single attendance record. JamMasuk and JamKeluar stay nil
// until the user checks in and out respectively.
type Presensi struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Nama       string         `json:"nama"`
	Tanggal    string         `json:"tanggal"`
	JamMasuk   *time.Time     `json:"jam_masuk"`
	JamKeluar  *time.Time     `json:"jam_keluar"`
	Status     StatusPresensi `json:"status"`
	Keterangan string         `json:"keterangan"`
	Lokasi     *Lokasi        `json:"lokasi"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// HoursWorked returns the time between check-in and check-out in hours,
// or zero while either timestamp is missing.
func (p Presensi) HoursWorked() float64 {
	if p.JamMasuk == nil || p.JamKeluar == nil {
		return 0
	}
	return p.JamKeluar.Sub(*p.JamMasuk).Hours()
}
