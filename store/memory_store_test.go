package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"hrms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *MemoryStore, first, email, employeeID string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, Email: email, EmployeeID: employeeID, Role: models.RoleEmployee}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestMemoryStoreUsers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	alice := seedUser(t, s, "Alice", "Alice@Example.com", "EMP001")
	assert.Equal(t, "alice@example.com", alice.Email)

	err := s.CreateUser(ctx, &models.User{Email: "alice@example.com", EmployeeID: "EMP002"})
	assert.ErrorIs(t, err, ErrDuplicate)
	err = s.CreateUser(ctx, &models.User{Email: "other@example.com", EmployeeID: "emp001"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := s.FindUserByEmployeeID(ctx, "emp001")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = s.FindUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	// returned records are copies
	found.FirstName = "Changed"
	again, err := s.FindUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FirstName)
}

func TestMemoryStoreAddMember(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	team := &models.Team{Name: "Core", JoinCode: "CORE0001", MaxMembers: 2}
	require.NoError(t, s.CreateTeam(ctx, team, 1))
	require.Len(t, team.Members, 1)

	err := s.AddMember(ctx, team.ID, &models.TeamMember{UserID: 1, Role: models.TeamRoleMember})
	assert.ErrorIs(t, err, ErrAlreadyMember)

	require.NoError(t, s.AddMember(ctx, team.ID, &models.TeamMember{UserID: 2, Role: models.TeamRoleMember}))
	err = s.AddMember(ctx, team.ID, &models.TeamMember{UserID: 3, Role: models.TeamRoleMember})
	assert.ErrorIs(t, err, ErrTeamFull)

	err = s.CreateTeam(ctx, &models.Team{Name: "Dup", JoinCode: "CORE0001", MaxMembers: 2}, 4)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryStoreConcurrentJoins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	team := &models.Team{Name: "Busy", JoinCode: "BUSY0001", MaxMembers: 5}
	require.NoError(t, s.CreateTeam(ctx, team, 100))

	var wg sync.WaitGroup
	var mu sync.Mutex
	joined, full := 0, 0
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			err := s.AddMember(ctx, team.ID, &models.TeamMember{UserID: uid, Role: models.TeamRoleMember})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, ErrTeamFull):
				full++
			}
		}(uint(i))
	}
	wg.Wait()

	assert.Equal(t, 4, joined)
	assert.Equal(t, 16, full)
	loaded, err := s.FindTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.MemberCount())
}

func TestMemoryStoreWithinTxRollsBack(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	team := &models.Team{Name: "Tx", JoinCode: "TXTX0001", MaxMembers: 5}
	require.NoError(t, s.CreateTeam(ctx, team, 1))

	boom := fmt.Errorf("boom")
	err := s.WithinTx(ctx, func(tx Store) error {
		require.NoError(t, tx.UpdateMemberRole(ctx, team.ID, 1, models.TeamRoleMember))
		require.NoError(t, tx.RemoveMember(ctx, team.ID, 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := s.FindTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.MemberCount())
	assert.True(t, loaded.IsLeader(1))

	require.NoError(t, s.WithinTx(ctx, func(tx Store) error {
		return tx.DeleteTeam(ctx, team.ID)
	}))
	_, err = s.FindTeam(ctx, team.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRollbackKeepsConcurrentWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	team := &models.Team{Name: "Tx", JoinCode: "TXTX0002", MaxMembers: 5}
	require.NoError(t, s.CreateTeam(ctx, team, 1))

	started := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.WithinTx(ctx, func(tx Store) error {
			if err := tx.RemoveMember(ctx, team.ID, 1); err != nil {
				return err
			}
			close(started)
			<-release
			return errors.New("boom")
		})
	}()

	<-started
	joined := make(chan error, 1)
	go func() {
		joined <- s.AddMember(ctx, team.ID, &models.TeamMember{UserID: 2, Role: models.TeamRoleMember})
	}()

	close(release)
	assert.EqualError(t, <-txDone, "boom")
	require.NoError(t, <-joined)

	loaded, err := s.FindTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.MemberCount())
	assert.True(t, loaded.IsLeader(1))
	assert.NotNil(t, loaded.Member(2))
}

func TestMemoryStoreTxCommitsAndIsolates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	team := &models.Team{Name: "Tx", JoinCode: "TXTX0003", MaxMembers: 5}
	require.NoError(t, s.CreateTeam(ctx, team, 1))
	require.NoError(t, s.AddMember(ctx, team.ID, &models.TeamMember{UserID: 2, Role: models.TeamRoleMember}))

	require.NoError(t, s.WithinTx(ctx, func(tx Store) error {
		if err := tx.UpdateMemberRole(ctx, team.ID, 2, models.TeamRoleLeader); err != nil {
			return err
		}
		// uncommitted writes are not visible outside the transaction
		outside, err := s.FindTeam(ctx, team.ID)
		require.NoError(t, err)
		assert.False(t, outside.IsLeader(2))
		return tx.RemoveMember(ctx, team.ID, 1)
	}))

	loaded, err := s.FindTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.MemberCount())
	assert.True(t, loaded.IsLeader(2))
}

func TestMemoryStoreLeavesAndNotifications(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, emp := range []uint{1, 2, 2} {
		require.NoError(t, s.CreateLeave(ctx, &models.Leave{EmployeeID: emp, Type: "sick"}))
	}
	all, err := s.ListLeaves(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	mine, err := s.ListLeaves(ctx, []uint{2})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	none, err := s.ListLeaves(ctx, []uint{})
	require.NoError(t, err)
	assert.Empty(t, none)

	n := &models.Notification{RecipientID: 1, Email: "a@example.com", Subject: "Hi"}
	require.NoError(t, s.CreateNotification(ctx, n))
	assert.Equal(t, models.NotificationPending, n.Status)

	pending, err := s.PendingNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	pending[0].Status = models.NotificationSent
	require.NoError(t, s.SaveNotification(ctx, &pending[0]))
	pending, err = s.PendingNotifications(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
