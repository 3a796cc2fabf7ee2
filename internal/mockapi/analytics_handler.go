package mockapi

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"presensi.client/internal/core/model"
)

const monthLayout = "2006-01"

// countWhere tallies the records accepted by keep. Callers hold s.mu.
func (s *Server) countWhere(keep func(*model.Presensi) bool) model.StatusCounts {
	var counts model.StatusCounts
	for _, p := range s.presensi {
		if keep(p) {
			counts.Add(p.Status)
		}
	}
	return counts
}

func (s *Server) dailySummary(date string) model.AnalyticsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.countWhere(func(p *model.Presensi) bool { return p.Tanggal == date })
	return model.AnalyticsSummary{
		Date:           date,
		TotalUsers:     len(s.users),
		TotalPresensi:  counts.Total(),
		AttendanceRate: counts.AttendanceRate(),
		StatusCounts:   counts,
	}
}

func (s *Server) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	today := s.clock().Format(dateLayout)
	writeOK(w, http.StatusOK, "Ringkasan presensi", s.dailySummary(today))
}

func (s *Server) analyticsDaily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.clock().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		writeError(w, http.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
		return
	}
	writeOK(w, http.StatusOK, "Statistik harian", s.dailySummary(date))
}

func (s *Server) analyticsMonthly(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = s.clock().Format(monthLayout)
	}
	start, err := time.Parse(monthLayout, month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Format bulan harus YYYY-MM")
		return
	}

	s.mu.RLock()
	byDate := make(map[string]*model.StatusCounts)
	var total model.StatusCounts
	for _, p := range s.presensi {
		if !strings.HasPrefix(p.Tanggal, month+"-") {
			continue
		}
		day, ok := byDate[p.Tanggal]
		if !ok {
			day = &model.StatusCounts{}
			byDate[p.Tanggal] = day
		}
		day.Add(p.Status)
		total.Add(p.Status)
	}
	s.mu.RUnlock()

	daily := make([]model.DailyStat, 0, len(byDate))
	for date, counts := range byDate {
		daily = append(daily, model.DailyStat{Date: date, StatusCounts: *counts})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	writeOK(w, http.StatusOK, "Statistik bulanan", model.MonthlyAnalytics{
		Month:          month,
		WorkingDays:    workingDays(start),
		TotalPresensi:  total.Total(),
		AttendanceRate: total.AttendanceRate(),
		Daily:          daily,
		StatusCounts:   total,
	})
}

// workingDays counts Monday to Friday in the month starting at first.
func workingDays(first time.Time) int {
	n := 0
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

func (s *Server) analyticsUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	caller := currentUser(r)
	if !caller.IsAdmin() && caller.ID != id {
		writeError(w, http.StatusForbidden, "Akses ditolak")
		return
	}

	s.mu.RLock()
	acc, ok := s.users[id]
	var nama string
	var counts model.StatusCounts
	if ok {
		nama = acc.Nama
		counts = s.countWhere(func(p *model.Presensi) bool { return p.UserID == id })
	}
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}
	writeOK(w, http.StatusOK, "Statistik user", model.UserAnalytics{
		UserID:         id,
		Nama:           nama,
		TotalPresensi:  counts.Total(),
		AttendanceRate: counts.AttendanceRate(),
		StatusCounts:   counts,
	})
}

func (s *Server) analyticsStatusBreakdown(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	counts := s.countWhere(func(*model.Presensi) bool { return true })
	s.mu.RUnlock()

	writeOK(w, http.StatusOK, "Rekap status presensi", counts)
}
