package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/internal/dispatchadmin/identity"
	"dispatch-admin/pkg/logging"
)

func newTestLogger(t *testing.T) *logging.ZapLogger {
	t.Helper()
	logger, err := logging.NewZapLogger(zapcore.ErrorLevel)
	if err != nil {
		t.Fatal(err)
	}
	return logger
}

type passThroughTransactionManager struct{}

func (passThroughTransactionManager) DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

type fakeWalletRecord struct {
	balance      decimal.Decimal
	transactions []data.WalletTransaction
}

type fakeLedger struct {
	wallets map[string]*fakeWalletRecord
	corrupt map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		wallets: make(map[string]*fakeWalletRecord),
		corrupt: make(map[string]bool),
	}
}

func (l *fakeLedger) addWallet(userID string, balance int64) {
	l.wallets[userID] = &fakeWalletRecord{
		balance: decimal.NewFromInt(balance),
	}
}

func (l *fakeLedger) getWallet(ctx context.Context, userID string) (*fakeWalletRecord, error) {
	_ = ctx
	if l.corrupt[userID] {
		return nil, fmt.Errorf("%w: wallet %s", data.ErrCorruptRecord, userID)
	}
	wallet, ok := l.wallets[userID]
	if !ok {
		return nil, data.ErrNotFound
	}
	return wallet, nil
}

func (l *fakeLedger) GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	wallet, err := l.getWallet(ctx, userID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return wallet.balance, nil
}

func (l *fakeLedger) GetWalletBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error) {
	return l.GetWalletBalance(ctx, userID)
}

func (l *fakeLedger) GetWalletTransactions(ctx context.Context, userID string) ([]data.WalletTransaction, error) {
	wallet, err := l.getWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]data.WalletTransaction(nil), wallet.transactions...), nil
}

func (l *fakeLedger) IncrementWalletBalance(ctx context.Context, userID string, delta decimal.Decimal) error {
	wallet, err := l.getWallet(ctx, userID)
	if err != nil {
		return err
	}
	wallet.balance = wallet.balance.Add(delta)
	return nil
}

func (l *fakeLedger) InsertWalletTransaction(
	ctx context.Context,
	userID string,
	amount decimal.Decimal,
	transactionType data.TransactionType,
	description string,
) error {
	wallet, err := l.getWallet(ctx, userID)
	if err != nil {
		return err
	}
	wallet.transactions = append(wallet.transactions, data.WalletTransaction{
		Amount:      amount,
		Type:        transactionType,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return nil
}

type fakeOrderStore struct {
	orders map[string]data.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[string]data.Order),
	}
}

func (s *fakeOrderStore) InsertOrder(_ context.Context, order *data.Order) error {
	s.orders[order.ID] = *order
	return nil
}

func (s *fakeOrderStore) GetOrder(_ context.Context, orderID string) (data.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return data.Order{}, data.ErrNotFound
	}
	return order, nil
}

func (s *fakeOrderStore) SetOrderCompleted(_ context.Context, orderID string) error {
	order, ok := s.orders[orderID]
	if !ok {
		return data.ErrNotFound
	}
	now := time.Now()
	order.Status = data.CompletedStatus
	order.CompletedAt = &now
	s.orders[orderID] = order
	return nil
}

type fakeIdentityProvider struct {
	uidsByEmail map[string]string
	roles       map[string]data.Role
	nextUID     int
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{
		uidsByEmail: make(map[string]string),
		roles:       make(map[string]data.Role),
	}
}

func (p *fakeIdentityProvider) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	if _, ok := p.uidsByEmail[email]; ok {
		return "", identity.ErrEmailTaken
	}
	p.nextUID++
	uid := fmt.Sprintf("uid-%d", p.nextUID)
	p.uidsByEmail[email] = uid
	return uid, nil
}

func (p *fakeIdentityProvider) SetRoleClaim(_ context.Context, uid string, role data.Role) error {
	p.roles[uid] = role
	return nil
}

func (p *fakeIdentityProvider) DeleteUser(_ context.Context, uid string) error {
	if _, ok := p.roles[uid]; !ok {
		return identity.ErrUserNotFound
	}
	delete(p.roles, uid)
	return nil
}

type fakeUserStore struct {
	profiles                  map[string]data.UserProfile
	wallets                   map[string]bool
	countCalls                int
	walletTransactionCleanups int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		profiles: make(map[string]data.UserProfile),
		wallets:  make(map[string]bool),
	}
}

func (s *fakeUserStore) InsertUserProfile(_ context.Context, profile *data.UserProfile) error {
	if _, ok := s.profiles[profile.ID]; ok {
		return data.ErrUniqueConstraintViolation
	}
	stored := *profile
	stored.CreatedAt = time.Now()
	s.profiles[profile.ID] = stored
	return nil
}

func (s *fakeUserStore) GetUserProfile(_ context.Context, userID string) (data.UserProfile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return data.UserProfile{}, data.ErrNotFound
	}
	return profile, nil
}

func (s *fakeUserStore) GetUserProfiles(_ context.Context, role data.Role, limit, offset int) ([]data.UserProfile, error) {
	matching := make([]data.UserProfile, 0)
	for _, profile := range s.profiles {
		if profile.Role == role {
			matching = append(matching, profile)
		}
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })
	if offset >= len(matching) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[offset:end], nil
}

func (s *fakeUserStore) CountUsersByRole(_ context.Context, role data.Role) (int, error) {
	s.countCalls++
	count := 0
	for _, profile := range s.profiles {
		if profile.Role == role {
			count++
		}
	}
	return count, nil
}

func (s *fakeUserStore) UpdateUserProfile(_ context.Context, userID string, fields map[string]string) error {
	profile, ok := s.profiles[userID]
	if !ok {
		return data.ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "email":
			profile.Email = value
		case "first_name":
			profile.FirstName = value
		case "last_name":
			profile.LastName = value
		case "phone_number":
			profile.PhoneNumber = value
		case "address":
			profile.Address = value
		}
	}
	s.profiles[userID] = profile
	return nil
}

func (s *fakeUserStore) DeleteUserProfile(_ context.Context, userID string) error {
	if _, ok := s.profiles[userID]; !ok {
		return data.ErrNotFound
	}
	delete(s.profiles, userID)
	return nil
}

func (s *fakeUserStore) InsertWallet(_ context.Context, userID string) error {
	s.wallets[userID] = true
	return nil
}

func (s *fakeUserStore) DeleteWallet(_ context.Context, userID string) error {
	delete(s.wallets, userID)
	return nil
}

func (s *fakeUserStore) DeleteWalletTransactions(_ context.Context, userID string) error {
	_ = userID
	s.walletTransactionCleanups++
	return nil
}

type fakeCache struct {
	values  map[string][]byte
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values: make(map[string][]byte),
	}
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.sets++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	c.deletes++
	return nil
}
