package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lendaro/bankcore/internal/common"
	"github.com/lendaro/bankcore/internal/dbx"
	"github.com/lendaro/bankcore/internal/server/auth"
	"github.com/lendaro/bankcore/internal/server/config"
	"github.com/lendaro/bankcore/internal/server/models"
	cardsrepo "github.com/lendaro/bankcore/internal/server/repositories/cards"
	employeesrepo "github.com/lendaro/bankcore/internal/server/repositories/employees"
	loansrepo "github.com/lendaro/bankcore/internal/server/repositories/loans"
	usersrepo "github.com/lendaro/bankcore/internal/server/repositories/users"
	"github.com/shopspring/decimal"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

type fakeUsersRepo struct {
	created *models.User

	createErr error

	getByEmailOut *models.User
	getByEmailErr error

	getOut *models.ProjectedUser
	getErr error

	hashOut string
	hashErr error

	updatedHash   string
	updateHashErr error

	documentKey string

	financials      *usersrepo.Financials
	financialsErr   error
	creditedAmounts []decimal.Decimal
	creditErr       error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	u.ID = "u1"
	u.Balance = decimal.NewFromInt(50000)
	u.CreatedAt = time.Now()
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.getByEmailOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.ProjectedUser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetPasswordHash(ctx context.Context, id string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return f.hashOut, nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	if f.updateHashErr != nil {
		return f.updateHashErr
	}
	f.updatedHash = hash
	return nil
}

func (f *fakeUsersRepo) UpdateDocumentKey(ctx context.Context, id string, key string) error {
	f.documentKey = key
	return nil
}

func (f *fakeUsersRepo) GetFinancialsForUpdate(ctx context.Context, id string) (*usersrepo.Financials, error) {
	if f.financialsErr != nil {
		return nil, f.financialsErr
	}
	return f.financials, nil
}

func (f *fakeUsersRepo) CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if f.creditErr != nil {
		return decimal.Decimal{}, f.creditErr
	}
	f.creditedAmounts = append(f.creditedAmounts, amount)
	f.financials.Balance = f.financials.Balance.Add(amount)
	return f.financials.Balance, nil
}

type fakeLoansRepo struct {
	created   []models.Loan
	createErr error

	listOut []models.Loan
	listErr error
}

func (f *fakeLoansRepo) Create(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	loan.ID = "l1"
	loan.IssuedAt = time.Now()
	f.created = append(f.created, *loan)
	return loan, nil
}

func (f *fakeLoansRepo) ListByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeCardsRepo struct {
	listOut []models.Card
	listErr error
}

func (f *fakeCardsRepo) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeEmployeesRepo struct {
	listOut []models.Employee
	listErr error
}

func (f *fakeEmployeesRepo) List(ctx context.Context) ([]models.Employee, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	l *fakeLoansRepo
	c *fakeCardsRepo
	e *fakeEmployeesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context) error { return nil }
func (m *fakeRepoManager) Conn() *sql.DB                       { return nil }
func (m *fakeRepoManager) Close() error                        { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Loans(db dbx.DBTX) loansrepo.Repository         { return m.l }
func (m *fakeRepoManager) Cards(db dbx.DBTX) cardsrepo.Repository         { return m.c }
func (m *fakeRepoManager) Employees(db dbx.DBTX) employeesrepo.Repository { return m.e }

// --- tests ---

func TestRegister_HashesPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := newUserService(t, db, rm)

	got, err := s.Register(context.Background(), RegisterParams{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "pa55word",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if rm.u.created.PasswordHash == "pa55word" {
		t.Fatalf("plaintext password must not be persisted")
	}
	if !auth.CheckPassword("pa55word", rm.u.created.PasswordHash) {
		t.Fatalf("stored hash does not verify against the password")
	}
	if got.ID != "u1" {
		t.Fatalf("unexpected projection: %+v", got)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorEmailExists}}
	s := newUserService(t, db, rm)

	_, err := s.Register(context.Background(), RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: "x",
	})
	if !errors.Is(err, common.ErrorEmailExists) {
		t.Fatalf("expected common.ErrorEmailExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := newUserService(t, db, rm)

	tests := []struct {
		name   string
		params RegisterParams
	}{
		{name: "missing name", params: RegisterParams{Email: "a@b.c", Password: "x"}},
		{name: "missing email", params: RegisterParams{Name: "A", Password: "x"}},
		{name: "bad email", params: RegisterParams{Name: "A", Email: "nope", Password: "x"}},
		{name: "missing password", params: RegisterParams{Name: "A", Email: "a@b.c"}},
		{name: "negative income", params: RegisterParams{
			Name: "A", Email: "a@b.c", Password: "x",
			MonthlyIncome: decimal.NewNullDecimal(decimal.NewFromInt(-1)),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.params)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("expected common.ErrorValidation, got %v", err)
			}
			if rm.u.created != nil {
				t.Fatalf("no row must be created on validation failure")
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := auth.HashPassword("pa55word")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		getByEmailOut: &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: hash},
	}}
	s := newUserService(t, db, rm)

	token, user, err := s.Login(context.Background(), "alice@example.com", "pa55word")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	gotID, err := auth.GetUserIDFromToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if gotID != "u1" {
		t.Fatalf("token user id mismatch: got %q", gotID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, _ := auth.HashPassword("right")
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		getByEmailOut: &models.User{ID: "u1", PasswordHash: hash},
	}}
	s := newUserService(t, db, rm)

	_, _, err := s.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected common.ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{getByEmailErr: common.ErrorNotFound}}
	s := newUserService(t, db, rm)

	_, _, err := s.Login(context.Background(), "nobody@example.com", "x")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected common.ErrorUnauthorized, got %v", err)
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, _ := auth.HashPassword("old")
	rm := &fakeRepoManager{u: &fakeUsersRepo{hashOut: hash}}
	s := newUserService(t, db, rm)

	err := s.ChangePassword(context.Background(), "u1", "not-old", "new")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected common.ErrorUnauthorized, got %v", err)
	}
	if rm.u.updatedHash != "" {
		t.Fatalf("hash must stay unchanged on a wrong old password")
	}
}

func TestChangePassword_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, _ := auth.HashPassword("old")
	rm := &fakeRepoManager{u: &fakeUsersRepo{hashOut: hash}}
	s := newUserService(t, db, rm)

	if err := s.ChangePassword(context.Background(), "u1", "old", "new"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}

	if rm.u.updatedHash == "" {
		t.Fatalf("expected a new hash to be stored")
	}
	if !auth.CheckPassword("new", rm.u.updatedHash) {
		t.Fatalf("new hash does not verify against the new password")
	}
	if auth.CheckPassword("old", rm.u.updatedHash) {
		t.Fatalf("old password must not verify against the new hash")
	}
}

func TestCurrentUser_NotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}}
	s := newUserService(t, db, rm)

	_, err := s.CurrentUser(context.Background(), "gone")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
