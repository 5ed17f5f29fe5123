package http

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/auth"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/category"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/transaction"
)

const validationFailed = "Validation failed"

var (
	amountPattern = regexp.MustCompile(`^\d+(\.\d{1,4})?$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

const (
	minPasswordLength = 8
	maxPasswordLength = 100
	maxNameLength     = 255
)

// parseBody decodes the JSON body into dst
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return nil
}

// parseID reads the :id route parameter
func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(validationFailed).Add("id", "id must be a valid UUID")
	}
	return id, nil
}

func done(verr *domain.ValidationError) error {
	if verr.HasFields() {
		return verr
	}
	return nil
}

func runeLen(s string) int {
	return len([]rune(s))
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r registerRequest) toInput() (auth.RegisterInput, error) {
	verr := domain.NewValidationError(validationFailed)

	email := strings.TrimSpace(r.Email)
	if !validEmail(email) {
		verr.Add("email", "Invalid email address")
	}
	if n := runeLen(r.Password); n < minPasswordLength || n > maxPasswordLength {
		verr.Add("password", "Password must be between 8 and 100 characters")
	} else if len(r.Password) > auth.MaxPasswordBytes {
		verr.Add("password", "Password must be at most 72 bytes")
	}
	name := strings.TrimSpace(r.Name)
	if n := runeLen(name); n < 1 || n > maxNameLength {
		verr.Add("name", "Name must be between 1 and 255 characters")
	}

	return auth.RegisterInput{Email: email, Password: r.Password, Name: name}, done(verr)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) toInput() (auth.LoginInput, error) {
	verr := domain.NewValidationError(validationFailed)

	email := strings.TrimSpace(r.Email)
	if !validEmail(email) {
		verr.Add("email", "Invalid email address")
	}
	if r.Password == "" {
		verr.Add("password", "Password is required")
	}

	return auth.LoginInput{Email: email, Password: r.Password}, done(verr)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r refreshRequest) validate() error {
	verr := domain.NewValidationError(validationFailed)
	if strings.TrimSpace(r.RefreshToken) == "" {
		verr.Add("refreshToken", "Refresh token is required")
	}
	return done(verr)
}

func parseType(verr *domain.ValidationError, raw string) domain.TransactionType {
	t := domain.TransactionType(raw)
	if !t.Valid() {
		verr.Add("type", "Type must be income or expense")
	}
	return t
}

func checkCategoryName(verr *domain.ValidationError, name string) {
	if n := runeLen(name); n < 1 || n > domain.MaxCategoryNameLength {
		verr.Add("name", "Name must be between 1 and 100 characters")
	}
}

func checkColor(verr *domain.ValidationError, color string) {
	if !domain.ValidColor(color) {
		verr.Add("color", "Color must be in hex format (#RRGGBB)")
	}
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Type  string `json:"type"`
}

func (r createCategoryRequest) toInput() (category.CreateCategoryInput, error) {
	verr := domain.NewValidationError(validationFailed)

	checkCategoryName(verr, r.Name)
	checkColor(verr, r.Color)
	t := parseType(verr, r.Type)

	return category.CreateCategoryInput{Name: r.Name, Color: r.Color, Type: t}, done(verr)
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Type  *string `json:"type"`
}

func (r updateCategoryRequest) toInput() (category.UpdateCategoryInput, error) {
	verr := domain.NewValidationError(validationFailed)
	var input category.UpdateCategoryInput

	if r.Name != nil {
		checkCategoryName(verr, *r.Name)
		input.Name = r.Name
	}
	if r.Color != nil {
		checkColor(verr, *r.Color)
		input.Color = r.Color
	}
	if r.Type != nil {
		t := parseType(verr, *r.Type)
		input.Type = &t
	}

	return input, done(verr)
}

func parseAmount(verr *domain.ValidationError, raw string) decimal.Decimal {
	if !amountPattern.MatchString(raw) {
		verr.Add("amount", "Amount must be a valid number with up to 4 decimal places")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Add("amount", "Amount must be a valid number with up to 4 decimal places")
		return decimal.Zero
	}
	if d.GreaterThanOrEqual(domain.MaxAmount) {
		verr.Add("amount", "Amount must have at most 15 integer digits")
	}
	return d
}

func checkDescription(verr *domain.ValidationError, description string) {
	if n := runeLen(description); n < 1 || n > domain.MaxDescriptionLength {
		verr.Add("description", "Description must be between 1 and 500 characters")
	}
}

func parseCategoryID(verr *domain.ValidationError, raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		verr.Add("categoryId", "categoryId must be a valid UUID")
	}
	return id
}

func parseDate(verr *domain.ValidationError, raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		verr.Add("date", "Date must be an ISO 8601 datetime")
	}
	return t
}

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Type        string `json:"type"`
	CategoryID  string `json:"categoryId"`
	IsRecurring bool   `json:"isRecurring"`
	Date        string `json:"date"`
}

func (r createTransactionRequest) toInput() (transaction.CreateTransactionInput, error) {
	verr := domain.NewValidationError(validationFailed)

	input := transaction.CreateTransactionInput{
		Amount:      parseAmount(verr, r.Amount),
		Description: r.Description,
		Type:        parseType(verr, r.Type),
		CategoryID:  parseCategoryID(verr, r.CategoryID),
		IsRecurring: r.IsRecurring,
		Date:        parseDate(verr, r.Date),
	}
	checkDescription(verr, r.Description)

	return input, done(verr)
}

type updateTransactionRequest struct {
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	CategoryID  *string `json:"categoryId"`
	IsRecurring *bool   `json:"isRecurring"`
	Date        *string `json:"date"`
}

func (r updateTransactionRequest) toInput() (transaction.UpdateTransactionInput, error) {
	verr := domain.NewValidationError(validationFailed)
	input := transaction.UpdateTransactionInput{IsRecurring: r.IsRecurring}

	if r.Amount != nil {
		amount := parseAmount(verr, *r.Amount)
		input.Amount = &amount
	}
	if r.Description != nil {
		checkDescription(verr, *r.Description)
		input.Description = r.Description
	}
	if r.Type != nil {
		t := parseType(verr, *r.Type)
		input.Type = &t
	}
	if r.CategoryID != nil {
		id := parseCategoryID(verr, *r.CategoryID)
		input.CategoryID = &id
	}
	if r.Date != nil {
		date := parseDate(verr, *r.Date)
		input.Date = &date
	}

	return input, done(verr)
}

// parseListQuery reads the transaction listing query string
func parseListQuery(c *fiber.Ctx, userID uuid.UUID) (domain.TransactionFilter, error) {
	verr := domain.NewValidationError(validationFailed)
	filter := domain.TransactionFilter{
		UserID: userID,
		Search: c.Query("search"),
		Page:   1,
		Limit:  transaction.DefaultPageLimit,
		Sort:   domain.SortNewest,
	}

	if raw := c.Query("page"); raw != "" {
		filter.Page = parseNonNegative(verr, "page", raw)
	}
	if raw := c.Query("limit"); raw != "" {
		filter.Limit = parseNonNegative(verr, "limit", raw)
	}
	if raw := c.Query("type"); raw != "" {
		filter.Type = parseType(verr, raw)
	}
	if raw := c.Query("categoryId"); raw != "" {
		id := parseCategoryID(verr, raw)
		filter.CategoryID = &id
	}
	if raw := c.Query("sort"); raw != "" {
		switch domain.SortOrder(raw) {
		case domain.SortNewest, domain.SortOldest:
			filter.Sort = domain.SortOrder(raw)
		default:
			verr.Add("sort", "Sort must be newest or oldest")
		}
	}

	return filter, done(verr)
}

func parseNonNegative(verr *domain.ValidationError, field, raw string) int {
	if !digitsPattern.MatchString(raw) {
		verr.Add(field, field+" must be a non-negative integer")
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(field, field+" is out of range")
	}
	return n
}
