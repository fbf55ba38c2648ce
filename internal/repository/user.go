package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/model"
)

// UserRepository handles staff account data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a staff account. Duplicate emails are rejected inside the
// transaction.
func (r *UserRepository) Create(ctx context.Context, account *model.UserAccount) error {
	script := `
BEGIN TRANSACTION;
LET $dup = (SELECT count() AS count FROM user_account WHERE string::lowercase(email) = $email_lower GROUP ALL);
IF array::len($dup) > 0 AND $dup[0].count > 0 { THROW "duplicate_email" };
CREATE user_account CONTENT {
	email: $email,
	display_name: $display_name,
	role: $role,
	status: "active",
	created_by: $created_by,
	updated_by: $created_by,
	created_on: time::now(),
	updated_on: time::now()
} RETURN AFTER;
COMMIT TRANSACTION;
`
	vars := map[string]interface{}{
		"email":        account.Email,
		"email_lower":  strings.ToLower(account.Email),
		"display_name": account.DisplayName,
		"role":         account.Role,
		"created_by":   account.CreatedBy,
	}

	result, err := r.db.Query(ctx, script, vars)
	if err != nil {
		if database.ThrowReason(err) == "duplicate_email" {
			return database.ErrDuplicate
		}
		return err
	}

	for _, created := range parseUserAccounts(result) {
		account.ID = created.ID
		account.Status = created.Status
		account.CreatedOn = created.CreatedOn
		account.UpdatedOn = created.UpdatedOn
		return nil
	}
	return database.ErrQuery
}

// Get retrieves an account by ID
func (r *UserRepository) Get(ctx context.Context, accountID string) (*model.UserAccount, error) {
	query := `SELECT * FROM ONLY type::record($account_id)`
	vars := map[string]interface{}{"account_id": accountID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	return parseUserAccount(result)
}

// GetByEmail retrieves an account by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.UserAccount, error) {
	query := `SELECT * FROM user_account WHERE string::lowercase(email) = $email_lower LIMIT 1`
	vars := map[string]interface{}{"email_lower": strings.ToLower(email)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	accounts := parseUserAccounts(result)
	if len(accounts) == 0 {
		return nil, nil
	}
	return accounts[0], nil
}

// List returns all staff accounts ordered by creation.
func (r *UserRepository) List(ctx context.Context) ([]*model.UserAccount, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM user_account ORDER BY created_on ASC`, nil)
	if err != nil {
		return nil, err
	}

	return parseUserAccounts(result), nil
}

// Update applies a partial update to an account.
func (r *UserRepository) Update(ctx context.Context, accountID string, updates map[string]interface{}) (*model.UserAccount, error) {
	if len(updates) == 0 {
		return r.Get(ctx, accountID)
	}

	query := `UPDATE type::record($account_id) SET updated_on = time::now()`
	vars := map[string]interface{}{"account_id": accountID}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseUserAccount(result)
}

func parseUserAccount(result interface{}) (*model.UserAccount, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	account := &model.UserAccount{
		ID:          convertSurrealID(data["id"]),
		Email:       getString(data, "email"),
		DisplayName: getString(data, "display_name"),
		Role:        getString(data, "role"),
		Status:      getString(data, "status"),
		CreatedBy:   getString(data, "created_by"),
		UpdatedBy:   getString(data, "updated_by"),
	}

	if t := getTime(data, "created_on"); t != nil {
		account.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		account.UpdatedOn = *t
	}

	return account, nil
}

func parseUserAccounts(result []interface{}) []*model.UserAccount {
	accounts := make([]*model.UserAccount, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					if account, err := parseUserAccount(item); err == nil {
						accounts = append(accounts, account)
					}
				}
				continue
			}
		}

		if account, err := parseUserAccount(res); err == nil {
			accounts = append(accounts, account)
		}
	}

	return accounts
}
