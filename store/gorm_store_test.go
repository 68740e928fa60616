package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"hrms/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(prefixMatcher()))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewGormStore(gdb), mock
}

// prefixMatcher accepts a query that starts with the expected SQL, ignoring whitespace differences
func prefixMatcher() sqlmock.QueryMatcher {
	return sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		normalize := func(s string) string {
			return strings.Join(strings.Fields(s), " ")
		}
		if strings.HasPrefix(normalize(actual), normalize(expected)) {
			return nil
		}
		return sqlmock.ErrCancelled
	})
}

// setTime matches a non-zero time.Time argument
type setTime struct{}

func (setTime) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && !ts.IsZero()
}

func TestGormStoreFindUserByEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT * FROM "users" WHERE email = $1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := s.FindUserByEmail(context.Background(), "Alice@Example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreCountUsers(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count(*) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreCreateUserDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := s.CreateUser(context.Background(), &models.User{Email: "a@example.com", EmployeeID: "EMP001"})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreAddMember(t *testing.T) {
	tests := []struct {
		name     string
		existing int
		members  int
		wantErr  error
	}{
		{name: "already member", existing: 1, members: 1, wantErr: ErrAlreadyMember},
		{name: "team full", existing: 0, members: 2, wantErr: ErrTeamFull},
		{name: "joined", existing: 0, members: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT * FROM "teams" WHERE "teams"."id" = $1`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "join_code", "max_members"}).AddRow(7, "ABCD1234", 2))
			mock.ExpectQuery(`SELECT count(*) FROM "team_members" WHERE team_id = $1 AND user_id = $2`).
				WithArgs(7, 5).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.existing))
			if tt.existing == 0 {
				mock.ExpectQuery(`SELECT count(*) FROM "team_members" WHERE team_id = $1`).
					WithArgs(7).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.members))
			}
			if tt.wantErr == nil {
				mock.ExpectQuery(`INSERT INTO "team_members"`).
					WithArgs(7, 5, models.TeamRoleMember, setTime{}).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			member := &models.TeamMember{UserID: 5, Role: models.TeamRoleMember}
			err := s.AddMember(context.Background(), 7, member)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.EqualValues(t, 11, member.ID)
				assert.EqualValues(t, 7, member.TeamID)
				assert.False(t, member.JoinedAt.IsZero())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStoreRemoveMemberNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "team_members" WHERE team_id = $1 AND user_id = $2`).
		WithArgs(7, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.RemoveMember(context.Background(), 7, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreCreateTeam(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`INSERT INTO "team_members"`).
		WithArgs(3, 9, models.TeamRoleLeader, setTime{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	team := &models.Team{Name: "Launch", JoinCode: "ABCD1234", CreatorID: 9, MaxMembers: 5, IsActive: true}
	require.NoError(t, s.CreateTeam(context.Background(), team, 9))
	assert.EqualValues(t, 3, team.ID)
	require.Len(t, team.Members, 1)
	assert.EqualValues(t, 4, team.Members[0].ID)
	assert.True(t, team.IsLeader(9))
	assert.False(t, team.Members[0].JoinedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreCreateTeamDuplicateCode(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "teams"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_teams_join_code" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := s.CreateTeam(context.Background(), &models.Team{Name: "Launch", JoinCode: "ABCD1234", MaxMembers: 5}, 9)
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreDeleteTeam(t *testing.T) {
	tests := []struct {
		name    string
		deleted int64
		wantErr error
	}{
		{name: "cascade", deleted: 1},
		{name: "missing team", deleted: 0, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM "team_members" WHERE team_id = $1`).
				WithArgs(3).
				WillReturnResult(sqlmock.NewResult(0, 2))
			mock.ExpectExec(`DELETE FROM "tasks" WHERE team_id = $1`).
				WithArgs(3).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(`DELETE FROM "teams" WHERE "teams"."id" = $1`).
				WithArgs(3).
				WillReturnResult(sqlmock.NewResult(0, tt.deleted))
			if tt.wantErr == nil {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := s.DeleteTeam(context.Background(), 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStoreWithinTxRollsBackLeaderTransfer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "team_members" SET "role"=$1 WHERE team_id = $2 AND user_id = $3`).
		WithArgs(models.TeamRoleLeader, 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "team_members" WHERE team_id = $1 AND user_id = $2`).
		WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(tx Store) error {
		if err := tx.UpdateMemberRole(context.Background(), 3, 5, models.TeamRoleLeader); err != nil {
			return err
		}
		return tx.RemoveMember(context.Background(), 3, 9)
	})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}
