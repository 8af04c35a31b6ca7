package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tiffinbox/internal/auth"
	"tiffinbox/internal/domain"
	"tiffinbox/internal/order"
)

type credentialsDTO struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponseDTO struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func authResponse(u auth.User, token string) authResponseDTO {
	var resp authResponseDTO
	resp.Token = token
	resp.User.ID = u.ID
	resp.User.Name = u.Name
	resp.User.Email = u.Email
	return resp
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	u, token, err := s.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeProblem(w, http.StatusConflict, "user_exists", err.Error())
			return
		}
		writeProblem(w, http.StatusBadRequest, "invalid_registration", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, authResponse(u, token))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	u, token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		writeProblem(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, authResponse(u, token))
}

func (s *Server) handleListMenu(w http.ResponseWriter, r *http.Request) {
	items := s.menu.List(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.menu.Get(chi.URLParam(r, "itemID"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "not_found", "menu item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	o, err := s.orders.Create(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.CreateOrderResponse{Order: o})
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListByCustomer(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Get(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

type statusUpdateDTO struct {
	Status domain.OrderStatus `json:"status"`
	Note   string             `json:"note,omitempty"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	o, err := s.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status, req.Note)
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (s *Server) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, order.ErrAccessDenied):
		writeProblem(w, http.StatusForbidden, "access_denied", "order belongs to another customer")
	case errors.Is(err, order.ErrIllegalTransition):
		writeProblem(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrUnknownMenuItem),
		errors.Is(err, order.ErrItemUnavailable),
		errors.Is(err, order.ErrInvalidPayment),
		errors.Is(err, order.ErrInvalidStatus):
		writeProblem(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.lg.Error("request_failed", err, nil)
		writeProblem(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
