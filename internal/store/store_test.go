package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/balancesheet-pro/apiserver/config"
	"github.com/balancesheet-pro/apiserver/internal/db"
	"github.com/balancesheet-pro/apiserver/internal/ledger"
	"github.com/balancesheet-pro/apiserver/internal/store"
	"github.com/balancesheet-pro/apiserver/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	ctx    context.Context
	conn   *sql.DB
	users  *store.UserRepository
	ledger *store.LedgerRepository
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	cfg := config.Config{Database: config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(s.T().TempDir(), "ledger.db"),
	}}

	s.Require().NoError(db.MigrateUp(cfg))
	conn, err := db.Open(s.ctx, cfg)
	s.Require().NoError(err)

	s.conn = conn
	s.users = store.NewUserRepository(conn)
	s.ledger = store.NewLedgerRepository(conn)
}

func (s *StoreSuite) TearDownTest() {
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *StoreSuite) createUser(name string) types.User {
	user, err := s.users.Create(s.ctx, types.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
	})
	s.Require().NoError(err)
	return user
}

func (s *StoreSuite) TestUserRoundTrip() {
	created := s.createUser("alice")
	s.Positive(created.ID)

	byName, err := s.users.GetByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, byName.ID)
	s.Equal("alice@example.com", byName.Email)
	s.Nil(byName.LastLogin)

	byEmail, err := s.users.GetByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(created.ID, byEmail.ID)

	loginAt := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.users.TouchLastLogin(s.ctx, created.ID, loginAt))

	byID, err := s.users.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID.LastLogin)
	s.True(loginAt.Equal(*byID.LastLogin))
}

func (s *StoreSuite) TestUserNotFound() {
	_, err := s.users.GetByUsername(s.ctx, "ghost")
	s.ErrorIs(err, store.ErrNotFound)

	s.ErrorIs(s.users.TouchLastLogin(s.ctx, 999, time.Now()), store.ErrNotFound)
}

func (s *StoreSuite) TestUserConflict() {
	s.createUser("bob")

	_, err := s.users.Create(s.ctx, types.User{Username: "bob", Email: "other@example.com", PasswordHash: "x"})
	s.ErrorIs(err, store.ErrConflict)

	_, err = s.users.Create(s.ctx, types.User{Username: "bobby", Email: "bob@example.com", PasswordHash: "x"})
	s.ErrorIs(err, store.ErrConflict)
}

func (s *StoreSuite) TestEntryRoundTrip() {
	owner := s.createUser("carol")

	for _, kind := range types.EntryKinds {
		stored, err := s.ledger.CreateEntry(s.ctx, types.Entry{
			UserID:   owner.ID,
			Kind:     kind,
			Amount:   decimal.RequireFromString("1000.50"),
			Category: "Salary",
			Date:     types.NewDate(2025, time.December, 1),
		})
		s.Require().NoError(err, kind)
		s.Positive(stored.ID)
		s.False(stored.CreatedAt.IsZero())

		listed, err := s.ledger.ListEntries(s.ctx, kind, owner.ID)
		s.Require().NoError(err)
		s.Require().Len(listed, 1)
		s.Equal(stored.ID, listed[0].ID)
		s.Equal(kind, listed[0].Kind)
		s.True(decimal.RequireFromString("1000.5").Equal(listed[0].Amount))
		s.Equal("2025-12-01", listed[0].Date.String())
		s.Equal("Salary", listed[0].Category)
	}
}

func (s *StoreSuite) TestLoanRoundTrip() {
	owner := s.createUser("dave")

	given, err := s.ledger.CreateLoan(s.ctx, types.Loan{
		UserID:   owner.ID,
		Type:     types.LoanGiven,
		Borrower: "John Doe",
		Amount:   decimal.NewFromInt(2000),
		Interest: decimal.RequireFromString("5.5"),
		DueDate:  types.NewDate(2026, time.December, 1),
	})
	s.Require().NoError(err)

	_, err = s.ledger.CreateLoan(s.ctx, types.Loan{
		UserID:  owner.ID,
		Type:    types.LoanTaken,
		Lender:  "Bank",
		Amount:  decimal.NewFromInt(500),
		DueDate: types.NewDate(2027, time.January, 1),
	})
	s.Require().NoError(err)

	loans, err := s.ledger.ListLoans(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Require().Len(loans, 2)
	s.Equal(given.ID, loans[0].ID)
	s.Equal(types.LoanGiven, loans[0].Type)
	s.Equal("John Doe", loans[0].Borrower)
	s.Empty(loans[0].Lender)
	s.True(decimal.RequireFromString("5.5").Equal(loans[0].Interest))
	s.Equal("Bank", loans[1].Lender)
	s.True(loans[1].Interest.IsZero())
}

func (s *StoreSuite) TestRejectsInvalidRecords() {
	owner := s.createUser("erin")

	_, err := s.ledger.CreateEntry(s.ctx, types.Entry{
		UserID:   owner.ID,
		Kind:     types.KindExpenses,
		Amount:   decimal.NewFromInt(-10),
		Category: "food",
		Date:     types.NewDate(2025, time.May, 1),
	})
	s.True(errors.Is(err, ledger.ErrValidation))

	_, err = s.ledger.CreateLoan(s.ctx, types.Loan{
		UserID:  owner.ID,
		Type:    types.LoanGiven,
		Amount:  decimal.NewFromInt(1000),
		DueDate: types.NewDate(2026, time.January, 1),
	})
	s.True(errors.Is(err, ledger.ErrValidation))

	_, err = s.ledger.CreateEntry(s.ctx, types.Entry{UserID: owner.ID, Kind: types.KindLoans})
	s.Error(err)

	entries, err := s.ledger.ListEntries(s.ctx, types.KindExpenses, owner.ID)
	s.Require().NoError(err)
	s.Empty(entries)
	s.NotNil(entries)
}

func (s *StoreSuite) TestOwnerIsolation() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	_, err := s.ledger.CreateEntry(s.ctx, types.Entry{
		UserID: alice.ID, Kind: types.KindIncome, Amount: decimal.NewFromInt(10),
		Category: "gift", Date: types.NewDate(2025, time.May, 1),
	})
	s.Require().NoError(err)

	entries, err := s.ledger.ListEntries(s.ctx, types.KindIncome, bob.ID)
	s.Require().NoError(err)
	s.Empty(entries)

	loans, err := s.ledger.ListLoans(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Empty(loans)
}

func (s *StoreSuite) TestConcurrentAddsGetDistinctIDs() {
	owner := s.createUser("frank")
	const writers = 20

	var wg sync.WaitGroup
	ids := make(chan int64, writers)
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := s.ledger.CreateEntry(s.ctx, types.Entry{
				UserID: owner.ID, Kind: types.KindExpenses, Amount: decimal.NewFromInt(1),
				Category: "coffee", Date: types.NewDate(2025, time.May, 1),
			})
			if err != nil {
				errs <- err
				return
			}
			ids <- entry.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}
	seen := make(map[int64]bool)
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	s.Len(seen, writers)

	entries, err := s.ledger.ListEntries(s.ctx, types.KindExpenses, owner.ID)
	s.Require().NoError(err)
	s.Len(entries, writers)
}
