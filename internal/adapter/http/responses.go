package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/auth"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/transaction"
)

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func newAuthResponse(r *auth.AuthResult) authResponse {
	return authResponse{
		User:         userResponse{ID: r.User.ID, Email: r.User.Email, Name: r.User.Name},
		AccessToken:  r.Tokens.AccessToken,
		RefreshToken: r.Tokens.RefreshToken,
	}
}

type categoryResponse struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"userId"`
	Name      string                 `json:"name"`
	Color     string                 `json:"color"`
	Type      domain.TransactionType `json:"type"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func newCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Color:     c.Color,
		Type:      c.Type,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func newCategoryList(categories []*domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, newCategoryResponse(c))
	}
	return out
}

type transactionResponse struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"userId"`
	CategoryID  uuid.UUID               `json:"categoryId"`
	Amount      string                  `json:"amount"`
	Description string                  `json:"description"`
	Type        domain.TransactionType  `json:"type"`
	IsRecurring bool                    `json:"isRecurring"`
	Date        time.Time               `json:"date"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Category    *domain.CategorySummary `json:"category"`
}

func newTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount.StringFixed(domain.AmountScale),
		Description: t.Description,
		Type:        t.Type,
		IsRecurring: t.IsRecurring,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Category:    t.Category,
	}
}

type transactionListResponse struct {
	Items      []transactionResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"totalPages"`
}

func newTransactionList(r *transaction.ListResult) transactionListResponse {
	items := make([]transactionResponse, 0, len(r.Items))
	for _, t := range r.Items {
		items = append(items, newTransactionResponse(t))
	}
	return transactionListResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}
