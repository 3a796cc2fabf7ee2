package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"presensi.client/internal/core/model"
)

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.RLock()
	acc, ok := s.findByEmail(req.Email)
	var user model.User
	var hash []byte
	if ok {
		user, hash = acc.User, acc.passwordHash
	}
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusBadRequest, "Email atau password salah")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "Akun tidak aktif")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign token")
		writeError(w, http.StatusInternalServerError, "Gagal membuat token")
		return
	}
	writeOK(w, http.StatusOK, "Login berhasil", model.LoginResponse{Token: token, User: user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Nama) == "" {
		writeError(w, http.StatusBadRequest, "Email dan nama wajib diisi")
		return
	}

	role := model.Role(req.Role)
	if role == "" {
		role = model.RoleEmployee
	}
	if role != model.RoleEmployee && role != model.RoleAdmin {
		writeError(w, http.StatusBadRequest, "Role tidak valid")
		return
	}

	s.mu.Lock()
	user, err := s.createUserLocked(req.Email, req.Password, req.Nama, role)
	s.mu.Unlock()

	switch {
	case errors.Is(err, errEmailTaken):
		writeError(w, http.StatusConflict, "Email sudah terdaftar")
		return
	case errors.Is(err, errInvalidPassword):
		writeError(w, http.StatusBadRequest, "Password minimal 6 karakter")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to create user")
		writeError(w, http.StatusInternalServerError, "Gagal mendaftarkan user")
		return
	}

	writeOK(w, http.StatusCreated, "Registrasi berhasil", model.RegisteredUser{
		ID:    user.ID,
		Email: user.Email,
		Nama:  user.Nama,
		Role:  string(user.Role),
	})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "Profil user", currentUser(r))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "Password minimal 6 karakter")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.users[currentUser(r).ID]
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.OldPassword)) != nil {
		writeError(w, http.StatusBadRequest, "Password lama salah")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Gagal mengubah password")
		return
	}
	acc.passwordHash = hash
	acc.UpdatedAt = s.now().UTC()

	writeOK[model.Empty](w, http.StatusOK, "Password berhasil diubah", nil)
}
