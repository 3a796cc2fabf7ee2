package mockapi

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"presensi.client/internal/core/model"
)

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	s.mu.RLock()
	users := make([]model.User, 0, len(s.users))
	for _, acc := range s.users {
		users = append(users, acc.User)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	items, meta := paginate(users, page, limit)
	writePage(w, "Daftar user", items, meta)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	caller := currentUser(r)
	if !caller.IsAdmin() && caller.ID != id {
		writeError(w, http.StatusForbidden, "Akses ditolak")
		return
	}

	s.mu.RLock()
	acc, ok := s.users[id]
	var user model.User
	if ok {
		user = acc.User
	}
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}
	writeOK(w, http.StatusOK, "Detail user", user)
}

func (s *Server) updateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}
	acc.IsActive = req.IsActive
	acc.UpdatedAt = s.now().UTC()

	writeOK[model.Empty](w, http.StatusOK, "Status user diperbarui", nil)
}
