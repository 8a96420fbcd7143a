package dbrepository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/pkg/logging"
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) (pgx.Row, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
}

type DBRepository struct {
	storage DBStorage
	logger  *logging.ZapLogger
}

func New(storage DBStorage, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage: storage,
		logger:  logger,
	}
}

//go:embed sql/select_wallet_balance.sql
var selectWalletBalanceQuery string

func (db *DBRepository) GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := db.storage.QueryValue(ctx, selectWalletBalanceQuery, []any{userID}, []any{&balance})
	if err != nil {
		return decimal.Decimal{}, handleSQLError(err)
	}
	if balance.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: wallet %s has negative balance %s", data.ErrCorruptRecord, userID, balance)
	}
	return balance, nil
}

//go:embed sql/select_wallet_balance_for_update.sql
var selectWalletBalanceForUpdateQuery string

// GetWalletBalanceForUpdate reads the balance with a row lock, so a
// concurrent balance update on the same wallet waits until the current
// transaction finishes.
func (db *DBRepository) GetWalletBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := db.storage.QueryValue(ctx, selectWalletBalanceForUpdateQuery, []any{userID}, []any{&balance})
	if err != nil {
		return decimal.Decimal{}, handleSQLError(err)
	}
	if balance.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: wallet %s has negative balance %s", data.ErrCorruptRecord, userID, balance)
	}
	return balance, nil
}

//go:embed sql/select_wallet_transactions.sql
var selectWalletTransactionsQuery string

func (db *DBRepository) GetWalletTransactions(ctx context.Context, userID string) ([]data.WalletTransaction, error) {
	rows, err := db.storage.Query(ctx, selectWalletTransactionsQuery, userID)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.WalletTransaction, 0)
	for rows.Next() {
		var transaction data.WalletTransaction
		err := rows.Scan(
			&transaction.Amount,
			&transaction.Type,
			&transaction.Description,
			&transaction.CreatedAt,
		)
		if err != nil {
			return nil, handleSQLError(err)
		}
		if !transaction.Type.Valid() {
			return nil, fmt.Errorf("%w: wallet %s has transaction of unknown type %q", data.ErrCorruptRecord, userID, transaction.Type)
		}
		result = append(result, transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

//go:embed sql/increment_wallet_balance.sql
var incrementWalletBalanceQuery string

func (db *DBRepository) IncrementWalletBalance(ctx context.Context, userID string, delta decimal.Decimal) error {
	tag, err := db.storage.Exec(ctx, incrementWalletBalanceQuery, userID, delta)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

//go:embed sql/insert_wallet_transaction.sql
var insertWalletTransactionQuery string

// InsertWalletTransaction appends one audit row. The timestamp is
// assigned by the database at commit time.
func (db *DBRepository) InsertWalletTransaction(
	ctx context.Context,
	userID string,
	amount decimal.Decimal,
	transactionType data.TransactionType,
	description string,
) error {
	_, err := db.storage.Exec(ctx, insertWalletTransactionQuery, userID, amount, string(transactionType), description)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/insert_wallet.sql
var insertWalletQuery string

func (db *DBRepository) InsertWallet(ctx context.Context, userID string) error {
	_, err := db.storage.Exec(ctx, insertWalletQuery, userID)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/insert_order.sql
var insertOrderQuery string

func (db *DBRepository) InsertOrder(ctx context.Context, order *data.Order) error {
	_, err := db.storage.Exec(
		ctx,
		insertOrderQuery,
		order.ID,
		order.UserID,
		order.Fee,
		order.Description,
		string(order.Status),
		order.CreatedAt,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_order.sql
var selectOrderQuery string

func (db *DBRepository) GetOrder(ctx context.Context, orderID string) (data.Order, error) {
	db.logger.DebugCtx(ctx, "getting order", zap.String("orderID", orderID))
	order := data.Order{
		ID: orderID,
	}
	err := db.storage.QueryValue(
		ctx,
		selectOrderQuery,
		[]any{orderID},
		[]any{&order.UserID, &order.Fee, &order.Description, &order.Status, &order.CreatedAt, &order.CompletedAt},
	)
	if err != nil {
		return data.Order{}, handleSQLError(err)
	}
	if err := order.Validate(); err != nil {
		return data.Order{}, err
	}
	return order, nil
}

//go:embed sql/complete_order.sql
var completeOrderQuery string

func (db *DBRepository) SetOrderCompleted(ctx context.Context, orderID string) error {
	tag, err := db.storage.Exec(ctx, completeOrderQuery, orderID, string(data.CompletedStatus))
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

//go:embed sql/insert_user.sql
var insertUserQuery string

func (db *DBRepository) InsertUserProfile(ctx context.Context, profile *data.UserProfile) error {
	_, err := db.storage.Exec(
		ctx,
		insertUserQuery,
		profile.ID,
		profile.Email,
		profile.FirstName,
		profile.LastName,
		string(profile.Role),
		profile.PhoneNumber,
		profile.Address,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_user.sql
var selectUserQuery string

func (db *DBRepository) GetUserProfile(ctx context.Context, userID string) (data.UserProfile, error) {
	profile := data.UserProfile{
		ID: userID,
	}
	err := db.storage.QueryValue(
		ctx,
		selectUserQuery,
		[]any{userID},
		[]any{
			&profile.Email,
			&profile.FirstName,
			&profile.LastName,
			&profile.Role,
			&profile.PhoneNumber,
			&profile.Address,
			&profile.CreatedAt,
		},
	)
	if err != nil {
		return data.UserProfile{}, handleSQLError(err)
	}
	if err := profile.Validate(); err != nil {
		return data.UserProfile{}, err
	}
	return profile, nil
}

//go:embed sql/select_users_page.sql
var selectUsersPageQuery string

func (db *DBRepository) GetUserProfiles(ctx context.Context, role data.Role, limit, offset int) ([]data.UserProfile, error) {
	rows, err := db.storage.Query(ctx, selectUsersPageQuery, string(role), limit, offset)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.UserProfile, 0)
	for rows.Next() {
		profile := data.UserProfile{
			Role: role,
		}
		err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.FirstName,
			&profile.LastName,
			&profile.PhoneNumber,
			&profile.Address,
			&profile.CreatedAt,
		)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, profile)
	}
	if err = rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

//go:embed sql/count_users.sql
var countUsersQuery string

func (db *DBRepository) CountUsersByRole(ctx context.Context, role data.Role) (int, error) {
	var count int
	err := db.storage.QueryValue(ctx, countUsersQuery, []any{string(role)}, []any{&count})
	if err != nil {
		return 0, handleSQLError(err)
	}
	return count, nil
}

// UpdateUserProfile applies a partial update. Only columns listed in
// updatableColumns are accepted.
func (db *DBRepository) UpdateUserProfile(ctx context.Context, userID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	columns := make([]string, 0, len(fields))
	for column := range fields {
		if !updatableColumns[column] {
			return fmt.Errorf("column %q is not updatable", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	assignments := make([]string, len(columns))
	args := make([]any, 0, len(columns)+1)
	args = append(args, userID)
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = $%v", column, i+2)
		args = append(args, fields[column])
	}
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $1", strings.Join(assignments, ", "))

	tag, err := db.storage.Exec(ctx, query, args...)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

var updatableColumns = map[string]bool{
	"email":        true,
	"first_name":   true,
	"last_name":    true,
	"phone_number": true,
	"address":      true,
}

//go:embed sql/delete_user.sql
var deleteUserQuery string

func (db *DBRepository) DeleteUserProfile(ctx context.Context, userID string) error {
	tag, err := db.storage.Exec(ctx, deleteUserQuery, userID)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

//go:embed sql/delete_wallet.sql
var deleteWalletQuery string

// DeleteWallet removes the wallet row if one exists. Zero affected rows
// is not an error; employees and admins have no wallet.
func (db *DBRepository) DeleteWallet(ctx context.Context, userID string) error {
	_, err := db.storage.Exec(ctx, deleteWalletQuery, userID)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/delete_wallet_transactions.sql
var deleteWalletTransactionsQuery string

func (db *DBRepository) DeleteWalletTransactions(ctx context.Context, userID string) error {
	_, err := db.storage.Exec(ctx, deleteWalletTransactionsQuery, userID)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

func handleSQLError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return data.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return data.ErrUniqueConstraintViolation
		}
	}
	return err
}
