package rest

import (
	"net/http"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

// userView is the public account projection. Credential and OTP fields are
// not part of this type, so they cannot leak into a response.
type userView struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func viewUser(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Role: u.Role}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "User registered successfully.", viewUser(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.users.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OTP sent to your email.", map[string]string{"email": req.Email})
}

type resendRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.users.ResendOTP(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OTP sent to your email.", map[string]string{"email": req.Email})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type verifyOTPResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, user, err := s.users.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Login successful!", verifyOTPResponse{Token: token, User: viewUser(user)})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthenticated)
		return
	}

	user, err := s.users.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "", map[string]userView{"user": viewUser(user)})
}
