package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/auth"
	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/service"
	"github.com/tuanvumaihuynh/storefront/pkg/ptr"
)

const dateLayout = time.DateOnly

type RegisterRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	CPF       string  `json:"cpf"`
	Birthdate *string `json:"birthdate"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AccountResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CPF       string    `json:"cpf,omitempty"`
	Birthdate *string   `json:"birthdate"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountPageResponse struct {
	Data        []AccountResponse `json:"data"`
	CurrentPage int               `json:"current_page"`
	PerPage     int               `json:"per_page"`
	Total       int64             `json:"total"`
	LastPage    int               `json:"last_page"`
}

type accountHandler struct {
	*Service
	accountSvc service.AccountService
}

func newAccountHandler(s *Service, accountSvc service.AccountService) *accountHandler {
	return &accountHandler{
		Service:    s,
		accountSvc: accountSvc,
	}
}

func (h *accountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	params := service.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		CPF:      req.CPF,
	}
	if req.Birthdate != nil && strings.TrimSpace(*req.Birthdate) != "" {
		birthdate, err := time.Parse(dateLayout, *req.Birthdate)
		if err != nil {
			h.writeError(w, r, apperr.ValidationErr.WithMsg("birthdate must use the YYYY-MM-DD format").WrapParent(err))
			return
		}
		params.Birthdate = &birthdate
	}

	account, err := h.accountSvc.Register(r.Context(), params)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("account service register: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusCreated, toAccountResponse(account))
}

func (h *accountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.accountSvc.Login(r.Context(), service.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, fmt.Errorf("account service login: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
	})
}

func (h *accountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperr.UnauthorizedErr)
		return
	}

	var page *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		h.writeError(w, r, apperr.ValidationErr.WithMsg(fmt.Sprintf("invalid format for parameter page: %v", err)).WrapParent(err))
		return
	}
	result, err := h.accountSvc.ListAccounts(r.Context(), principal, ptr.Deref(page, 1))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("account service list accounts: %w", err))
		return
	}

	items := make([]AccountResponse, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, toAccountResponse(a))
	}

	h.writeJSON(w, r, http.StatusOK, AccountPageResponse{
		Data:        items,
		CurrentPage: result.CurrentPage,
		PerPage:     result.PerPage,
		Total:       result.Total,
		LastPage:    result.LastPage(),
	})
}

func toAccountResponse(a model.Account) AccountResponse {
	res := AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CPF:       a.CPF,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
	if a.Birthdate != nil {
		d := a.Birthdate.Format(dateLayout)
		res.Birthdate = &d
	}
	return res
}
