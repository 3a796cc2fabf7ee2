package model

// StatusCounts tallies presensi records per status.
type StatusCounts struct {
	Hadir     int `json:"hadir"`
	Terlambat int `json:"terlambat"`
	Izin      int `json:"izin"`
	Sakit     int `json:"sakit"`
	Cuti      int `json:"cuti"`
	Alpha     int `json:"alpha"`
}

// Add increments the counter that matches status. Unknown statuses are ignored.
func (c *StatusCounts) Add(status StatusPresensi) {
	switch status {
	case StatusHadir:
		c.Hadir++
	case StatusTerlambat:
		c.Terlambat++
	case StatusIzin:
		c.Izin++
	case StatusSakit:
		c.Sakit++
	case StatusCuti:
		c.Cuti++
	case StatusAlpha:
		c.Alpha++
	}
}

// Total is the sum over every status.
func (c StatusCounts) Total() int {
	return c.Hadir + c.Terlambat + c.Izin + c.Sakit + c.Cuti + c.Alpha
}

// AttendanceRate is the share of records where the user showed up (on time or late), in percent.
func (c StatusCounts) AttendanceRate() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Hadir+c.Terlambat) / float64(total) * 100
}

type AnalyticsSummary struct {
	Date           string  `json:"date,omitempty"`
	TotalUsers     int     `json:"total_users"`
	TotalPresensi  int     `json:"total_presensi"`
	AttendanceRate float64 `json:"attendance_rate"`
	StatusCounts
}

type DailyStat struct {
	Date string `json:"date"`
	StatusCounts
}

type MonthlyAnalytics struct {
	Month          string      `json:"month"`
	WorkingDays    int         `json:"working_days"`
	TotalPresensi  int         `json:"total_presensi"`
	AttendanceRate float64     `json:"attendance_rate"`
	Daily          []DailyStat `json:"daily"`
	StatusCounts
}

type UserAnalytics struct {
	UserID         string  `json:"user_id"`
	Nama           string  `json:"nama"`
	TotalPresensi  int     `json:"total_presensi"`
	AttendanceRate float64 `json:"attendance_rate"`
	StatusCounts
}
