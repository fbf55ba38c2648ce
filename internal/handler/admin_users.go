package handler

import (
	"net/http"

	"github.com/kinovera/festival/api/internal/middleware"
	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/service"
)

// AccountHandler handles staff account management endpoints
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create handles POST /v1/admin/accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorRole := middleware.GetRole(r.Context())
	actorID := middleware.GetAccountID(r.Context())

	var req model.CreateAccountRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), actorRole, actorID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, account, map[string]string{
		"self": "/v1/admin/accounts/" + account.ID,
	})
}

// List handles GET /v1/admin/accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAccounts(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, accounts)
}

// Get handles GET /v1/admin/accounts/{accountId}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountId")

	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, account, nil)
}

// Update handles PATCH /v1/admin/accounts/{accountId} - display name,
// role assignment and activation all go through here.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorRole := middleware.GetRole(r.Context())
	actorID := middleware.GetAccountID(r.Context())
	accountID := r.PathValue("accountId")

	var req model.UpdateAccountRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	account, err := h.accountService.UpdateAccount(r.Context(), actorRole, actorID, accountID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, account, nil)
}
