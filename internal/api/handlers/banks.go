package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/craftbooks/settlement-backend/internal/api/dto"
	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// BankStore is the slice of the repository the bank endpoints need.
type BankStore interface {
	SaveBankAccount(account *model.BankAccount) error
	GetBankAccount(id string) (*model.BankAccount, error)
	ListBankAccounts() ([]*model.BankAccount, error)
	SaveBankRecords(records []model.BankRecord) error
	ListBankRecords(filters storage.BankRecordFilters) ([]model.BankRecord, error)
}

// BanksHandler serves bank account and bank record endpoints.
type BanksHandler struct {
	store BankStore
}

// NewBanksHandler creates a banks handler.
func NewBanksHandler(store BankStore) *BanksHandler {
	return &BanksHandler{store: store}
}

// CreateAccount handles POST /api/bank-accounts.
func (h *BanksHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	accountType, err := model.ParseAccountType(req.AccountType)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	account := &model.BankAccount{
		ID:            req.ID,
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		AccountType:   accountType,
		HasInvoice:    req.HasInvoice,
		Balance:       req.Balance,
		Description:   req.Description,
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	if err := h.store.SaveBankAccount(account); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// GetAccount handles GET /api/bank-accounts/:id.
func (h *BanksHandler) GetAccount(c *gin.Context) {
	account, err := h.store.GetBankAccount(c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	if account == nil {
		abortDomainError(c, &model.NotFoundError{Entity: "bank account", ID: c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, account)
}

// ListAccounts handles GET /api/bank-accounts.
func (h *BanksHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.store.ListBankAccounts()
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// ImportRecords handles POST /api/bank-records/import.
func (h *BanksHandler) ImportRecords(c *gin.Context) {
	var req dto.ImportBankRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	records := make([]model.BankRecord, 0, len(req.Records))
	for _, in := range req.Records {
		day, err := dto.ParseDate(in.TransactionDate)
		if err != nil {
			abortBadRequest(c, "transaction_date must be YYYY-MM-DD")
			return
		}
		txType, err := model.ParseTransactionType(in.TransactionType)
		if err != nil {
			abortDomainError(c, err)
			return
		}
		records = append(records, model.BankRecord{
			ID:              in.ID,
			TransactionDate: day,
			Description:     in.Description,
			Amount:          in.Amount,
			Balance:         in.Balance,
			TransactionType: txType,
			Counterparty:    in.Counterparty,
			BankAccountID:   in.BankAccountID,
		})
	}

	if err := h.store.SaveBankRecords(records); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(records)})
}

// ListRecords handles GET /api/bank-records.
func (h *BanksHandler) ListRecords(c *gin.Context) {
	from, err := dto.ParseDate(c.Query("from"))
	if err != nil {
		abortBadRequest(c, "from must be YYYY-MM-DD")
		return
	}
	to, err := dto.ParseDate(c.Query("to"))
	if err != nil {
		abortBadRequest(c, "to must be YYYY-MM-DD")
		return
	}

	records, err := h.store.ListBankRecords(storage.BankRecordFilters{
		BankAccountID: c.Query("bank_account_id"),
		From:          from,
		To:            to,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
