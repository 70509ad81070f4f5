package devapi

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/pkg/auth"
	"github.com/angelmondragon/artmarket-storefront/pkg/security"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/angelmondragon/artmarket-storefront/pkg/validators"
)

const resetCodeLength = 10

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,phone"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}

	acc, ok := s.state.accountByEmail(req.Email)
	if ok {
		ok, _ = s.hasher.Verify(req.Password, acc.passwordHash)
	}
	if !ok {
		// 401 is reserved for invalid sessions.
		writeError(r.Context(), s.logg, w, &apiError{
			status:  http.StatusBadRequest,
			code:    wireCodeInvalidCredentials,
			message: "Invalid email or password",
		})
		return
	}
	s.writeAuth(w, r, http.StatusOK, acc.user)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	if err := security.CheckStrength(req.Password); err != nil {
		writeError(r.Context(), s.logg, w, badRequest(err.Error()))
		return
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		writeError(r.Context(), s.logg, w, internal(err))
		return
	}

	user, ok := s.state.createAccount(types.User{
		Name:  validators.SanitizeString(req.Name, 120),
		Email: req.Email,
		Phone: strings.TrimSpace(req.Phone),
	}, hash)
	if !ok {
		writeError(r.Context(), s.logg, w, conflict("An account with this email already exists"))
		return
	}
	s.logg.Info(s.logg.WithUserID(r.Context(), user.ID), "account.registered")
	s.writeAuth(w, r, http.StatusCreated, user)
}

func (s *Server) writeAuth(w http.ResponseWriter, r *http.Request, status int, user types.User) {
	token, err := auth.MintAccessToken(s.cfg.JWT, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		writeError(r.Context(), s.logg, w, internal(err))
		return
	}
	writeSuccessStatus(w, status, types.WireAuth{Token: token, User: wireUser(user)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.state.revoke(sessionIDFromContext(r.Context()))
	writeNoContent(w)
}

// handleRequestReset always answers 204 so the endpoint does not reveal
// which emails have accounts.
func (s *Server) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	acc, ok := s.state.accountByEmail(req.Email)
	if !ok {
		writeNoContent(w)
		return
	}
	code, err := security.NewResetCode(resetCodeLength)
	if err != nil {
		writeError(r.Context(), s.logg, w, internal(err))
		return
	}
	s.state.storeResetCode(code, acc.user.ID, s.now().Add(resetCodeTTL))
	s.logg.Debug(s.logg.WithUserID(r.Context(), acc.user.ID), "password_reset.issued")
	s.notify(acc.user.Email, code)
	writeNoContent(w)
}

func (s *Server) handleConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	if err := security.CheckStrength(req.Password); err != nil {
		writeError(r.Context(), s.logg, w, badRequest(err.Error()))
		return
	}
	userID, ok := s.state.consumeResetCode(strings.TrimSpace(req.Token), s.now())
	if !ok {
		writeError(r.Context(), s.logg, w, badRequest("Reset link is invalid or has expired"))
		return
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		writeError(r.Context(), s.logg, w, internal(err))
		return
	}
	s.state.setPassword(userID, hash)
	writeNoContent(w)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	userID := userIDFromContext(r.Context())
	acc, ok := s.state.accountByID(userID)
	if !ok {
		writeError(r.Context(), s.logg, w, unauthorized("account no longer exists"))
		return
	}
	if match, _ := s.hasher.Verify(req.CurrentPassword, acc.passwordHash); !match {
		writeError(r.Context(), s.logg, w, badRequest("Current password is incorrect"))
		return
	}
	if err := security.CheckStrength(req.NewPassword); err != nil {
		writeError(r.Context(), s.logg, w, badRequest(err.Error()))
		return
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		writeError(r.Context(), s.logg, w, internal(err))
		return
	}
	s.state.setPassword(userID, hash)
	writeNoContent(w)
}
