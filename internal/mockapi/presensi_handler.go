package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"presensi.client/internal/core/model"
)

const dateLayout = "2006-01-02"

// visible reports whether caller may read or stamp p.
func visible(caller model.User, p *model.Presensi) bool {
	return caller.IsAdmin() || p.UserID == caller.ID
}

func matches(p *model.Presensi, q presensiQuery) bool {
	if q.userID != "" && p.UserID != q.userID {
		return false
	}
	if q.status != "" && p.Status != q.status {
		return false
	}
	if q.startDate != "" && p.Tanggal < q.startDate {
		return false
	}
	if q.endDate != "" && p.Tanggal > q.endDate {
		return false
	}
	return true
}

type presensiQuery struct {
	userID    string
	status    model.StatusPresensi
	startDate string
	endDate   string
}

func (s *Server) listPresensi(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	query := r.URL.Query()
	q := presensiQuery{
		userID:    query.Get("user_id"),
		status:    model.StatusPresensi(query.Get("status")),
		startDate: query.Get("start_date"),
		endDate:   query.Get("end_date"),
	}
	if !caller.IsAdmin() {
		q.userID = caller.ID
	}
	page, limit := pagination(r)

	s.mu.RLock()
	var records []model.Presensi
	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.presensi[s.order[i]]
		if matches(p, q) {
			records = append(records, *p)
		}
	}
	s.mu.RUnlock()

	items, meta := paginate(records, page, limit)
	writePage(w, "Daftar presensi", items, meta)
}

func (s *Server) getPresensi(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	p, ok := s.presensi[mux.Vars(r)["id"]]
	var record model.Presensi
	if ok {
		record = *p
	}
	s.mu.RUnlock()

	if !ok || !visible(currentUser(r), &record) {
		writeError(w, http.StatusNotFound, "Presensi tidak ditemukan")
		return
	}
	writeOK(w, http.StatusOK, "Detail presensi", record)
}

func (s *Server) createPresensi(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePresensiRequest
	if !decodeBody(w, r, &req) {
		return
	}
	caller := currentUser(r)
	if req.UserID == "" || !caller.IsAdmin() {
		req.UserID = caller.ID
	}
	if req.Status == "" {
		req.Status = model.StatusHadir
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Status presensi tidak valid")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.users[req.UserID]
	if !ok {
		writeError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}

	now := s.now()
	tanggal := now.Format(dateLayout)
	for _, existing := range s.presensi {
		if existing.UserID == owner.ID && existing.Tanggal == tanggal {
			writeError(w, http.StatusConflict, "Presensi hari ini sudah ada")
			return
		}
	}

	nama := req.Nama
	if nama == "" {
		nama = owner.Nama
	}
	p := &model.Presensi{
		ID:         uuid.NewString(),
		UserID:     owner.ID,
		Nama:       nama,
		Tanggal:    tanggal,
		Status:     req.Status,
		Keterangan: req.Keterangan,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if req.Latitude != nil && req.Longitude != nil {
		p.Lokasi = &model.Lokasi{Latitude: *req.Latitude, Longitude: *req.Longitude, Alamat: req.Alamat}
	}
	s.presensi[p.ID] = p
	s.order = append(s.order, p.ID)

	writeOK(w, http.StatusCreated, "Presensi dibuat", *p)
}

func (s *Server) updatePresensi(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePresensiRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Status presensi tidak valid")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presensi[mux.Vars(r)["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Presensi tidak ditemukan")
		return
	}
	if req.Status != "" {
		p.Status = req.Status
	}
	if req.Keterangan != nil {
		p.Keterangan = *req.Keterangan
	}
	p.UpdatedAt = s.now().UTC()

	writeOK(w, http.StatusOK, "Presensi diperbarui", *p)
}

func (s *Server) deletePresensi(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presensi[id]; !ok {
		writeError(w, http.StatusNotFound, "Presensi tidak ditemukan")
		return
	}
	delete(s.presensi, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	writeOK[model.Empty](w, http.StatusOK, "Presensi dihapus", nil)
}

// readLocation decodes the optional check-in/check-out body. An empty body
// yields nil.
func readLocation(r *http.Request) (*model.Location, error) {
	var loc model.Location
	err := json.NewDecoder(r.Body).Decode(&loc)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	s.stamp(w, r, true)
}

func (s *Server) checkOut(w http.ResponseWriter, r *http.Request) {
	s.stamp(w, r, false)
}

func (s *Server) stamp(w http.ResponseWriter, r *http.Request, in bool) {
	loc, err := readLocation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presensi[mux.Vars(r)["id"]]
	if !ok || !visible(currentUser(r), p) {
		writeError(w, http.StatusNotFound, "Presensi tidak ditemukan")
		return
	}

	now := s.now()
	if in {
		if p.JamMasuk != nil {
			writeError(w, http.StatusBadRequest, "Sudah check-in")
			return
		}
		p.JamMasuk = &now
		// Leave, sick and absence statuses set by an admin survive the stamp.
		if p.Status == "" || p.Status == model.StatusHadir {
			if s.isLate(now) {
				p.Status = model.StatusTerlambat
			} else {
				p.Status = model.StatusHadir
			}
		}
	} else {
		if p.JamMasuk == nil {
			writeError(w, http.StatusBadRequest, "Belum check-in")
			return
		}
		if p.JamKeluar != nil {
			writeError(w, http.StatusBadRequest, "Sudah check-out")
			return
		}
		p.JamKeluar = &now
	}
	if loc != nil {
		p.Lokasi = &model.Lokasi{Latitude: loc.Latitude, Longitude: loc.Longitude}
	}
	p.UpdatedAt = now.UTC()

	msg := "Check-out berhasil"
	if in {
		msg = "Check-in berhasil"
	}
	writeOK(w, http.StatusOK, msg, *p)
}
