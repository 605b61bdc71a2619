package member

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/grouppic/internal/user"
	"github.com/fkhayef/grouppic/pkg/apperror"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// fakeStore is an in-memory Store for exercising the lifecycle state machine.
type fakeStore struct {
	members map[string]*Member
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{members: make(map[string]*Member)}
}

func (f *fakeStore) add(m *Member) *Member {
	f.nextID++
	cp := *m
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("m%03d", f.nextID)
	}
	if cp.JoinRequestedAt.IsZero() {
		cp.JoinRequestedAt = time.Now()
	}
	f.members[cp.ID] = &cp
	return &cp
}

func (f *fakeStore) InsertPending(ctx context.Context, m *Member) (*Member, error) {
	for _, existing := range f.members {
		if existing.GroupID == m.GroupID && existing.UserID == m.UserID && existing.Status.Active() {
			return nil, ErrActiveMemberExists
		}
	}
	cp := *m
	cp.Role = RoleMember
	cp.Status = StatusPending
	return f.add(&cp), nil
}

func (f *fakeStore) GetByID(ctx context.Context, groupID, memberID string) (*Member, error) {
	m, ok := f.members[memberID]
	if !ok || m.GroupID != groupID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) GetActiveByGroupAndUser(ctx context.Context, groupID, userID string) (*Member, error) {
	for _, m := range f.members {
		if m.GroupID == groupID && m.UserID == userID && m.Status.Active() {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ApplyTransition(ctx context.Context, groupID, memberID string, t Transition) (*Member, error) {
	m, ok := f.members[memberID]
	if !ok || m.GroupID != groupID || m.Status != t.From {
		return nil, nil
	}
	if t.MemberOnly && m.Role != RoleMember {
		return nil, nil
	}
	m.Status = t.To
	if t.SetJoinedAt {
		now := time.Now()
		m.JoinedAt = &now
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) TransferOwnership(ctx context.Context, groupID, ownerMemberID, targetMemberID string) (bool, error) {
	owner, ok := f.members[ownerMemberID]
	if !ok || owner.GroupID != groupID || owner.Role != RoleOwner || owner.Status != StatusApproved {
		return false, nil
	}
	target, ok := f.members[targetMemberID]
	if !ok || target.GroupID != groupID || target.Role != RoleMember || target.Status != StatusApproved {
		return false, nil
	}
	owner.Role = RoleMember
	target.Role = RoleOwner
	return true, nil
}

func (f *fakeStore) List(ctx context.Context, groupID string, filter ListFilter, p pagination.Params) ([]*Member, error) {
	wanted := make(map[string]bool, len(filter.MemberIDs))
	for _, id := range filter.MemberIDs {
		wanted[id] = true
	}

	var out []*Member
	for _, m := range f.members {
		if m.GroupID != groupID {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if len(wanted) > 0 && !wanted[m.ID] {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type fakeResolver struct {
	groupIDs map[string]string
}

func (f *fakeResolver) ResolveID(ctx context.Context, code string) (string, error) {
	id, ok := f.groupIDs[code]
	if !ok {
		return "", apperror.NotFound("invitation code does not resolve to a group")
	}
	return id, nil
}

type fakeDirectory struct{}

func (fakeDirectory) GetByID(ctx context.Context, userID string) (*user.User, error) {
	return &user.User{ID: userID, Username: "user-" + userID}, nil
}

func newTestService(store *fakeStore, codes map[string]string) *Service {
	return NewService(store, &fakeResolver{groupIDs: codes}, fakeDirectory{})
}

func seedOwner(store *fakeStore, groupID, userID string) *Member {
	now := time.Now()
	return store.add(&Member{
		GroupID:  groupID,
		UserID:   userID,
		Username: "user-" + userID,
		Role:     RoleOwner,
		Status:   StatusApproved,
		JoinedAt: &now,
	})
}

func TestRequestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending membership", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		svc := newTestService(store, map[string]string{"code-1": "g1"})

		m, err := svc.RequestJoin(ctx, "alice", &JoinGroupRequest{InvitationCode: "code-1"})
		require.NoError(t, err)
		assert.Equal(t, "g1", m.GroupID)
		assert.Equal(t, StatusPending, m.Status)
		assert.Equal(t, RoleMember, m.Role)
		assert.Nil(t, m.JoinedAt)
	})

	t.Run("stale code yields not found", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, map[string]string{})

		_, err := svc.RequestJoin(ctx, "alice", &JoinGroupRequest{InvitationCode: "rotated-away"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("empty code yields invalid", func(t *testing.T) {
		svc := newTestService(newFakeStore(), nil)

		_, err := svc.RequestJoin(ctx, "alice", &JoinGroupRequest{})
		assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
	})

	t.Run("duplicate active membership yields conflict", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, map[string]string{"code-1": "g1"})

		_, err := svc.RequestJoin(ctx, "alice", &JoinGroupRequest{InvitationCode: "code-1"})
		require.NoError(t, err)

		_, err = svc.RequestJoin(ctx, "alice", &JoinGroupRequest{InvitationCode: "code-1"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("re-request allowed after terminal status", func(t *testing.T) {
		store := newFakeStore()
		store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusRejected})
		svc := newTestService(store, map[string]string{"code-1": "g1"})

		m, err := svc.RequestJoin(ctx, "alice", &JoinGroupRequest{InvitationCode: "code-1"})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, m.Status)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to approved stamps joined_at", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		pending := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusPending})
		svc := newTestService(store, nil)

		m, err := svc.Approve(ctx, "owner", "g1", pending.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, m.Status)
		require.NotNil(t, m.JoinedAt)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		pending := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusPending})
		svc := newTestService(store, nil)

		_, err := svc.Approve(ctx, "alice", "g1", pending.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("double approve yields conflict", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		pending := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusPending})
		svc := newTestService(store, nil)

		_, err := svc.Approve(ctx, "owner", "g1", pending.ID)
		require.NoError(t, err)

		_, err = svc.Approve(ctx, "owner", "g1", pending.ID)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("unknown member yields not found", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		svc := newTestService(store, nil)

		_, err := svc.Approve(ctx, "owner", "g1", "missing")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	seedOwner(store, "g1", "owner")
	pending := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusPending})
	svc := newTestService(store, nil)

	m, err := svc.Reject(ctx, "owner", "g1", pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, m.Status)
	assert.Nil(t, m.JoinedAt)

	// The slot is free again.
	active, err := store.GetActiveByGroupAndUser(ctx, "g1", "alice")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestDropOut(t *testing.T) {
	ctx := context.Background()

	t.Run("owner removes approved member", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		approved := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusApproved})
		svc := newTestService(store, nil)

		m, err := svc.DropOut(ctx, "owner", "g1", approved.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusDroppedOut, m.Status)
	})

	t.Run("owner row cannot be dropped", func(t *testing.T) {
		store := newFakeStore()
		ownerRow := seedOwner(store, "g1", "owner")
		svc := newTestService(store, nil)

		_, err := svc.DropOut(ctx, "owner", "g1", ownerRow.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("pending member yields conflict", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		pending := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusPending})
		svc := newTestService(store, nil)

		_, err := svc.DropOut(ctx, "owner", "g1", pending.ID)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("target promoted mid-flight is forbidden", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		target := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusApproved})
		svc := NewService(&promotingStore{fakeStore: store, promoteID: target.ID}, nil, fakeDirectory{})

		_, err := svc.DropOut(ctx, "owner", "g1", target.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

// promotingStore promotes one member to owner right before a transition is
// applied, simulating an ownership transfer racing the transition.
type promotingStore struct {
	*fakeStore
	promoteID string
}

func (p *promotingStore) ApplyTransition(ctx context.Context, groupID, memberID string, t Transition) (*Member, error) {
	if m, ok := p.members[p.promoteID]; ok {
		m.Role = RoleOwner
	}
	return p.fakeStore.ApplyTransition(ctx, groupID, memberID, t)
}

func TestLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("approved member leaves", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusApproved})
		svc := newTestService(store, nil)

		m, err := svc.Leave(ctx, "alice", "g1")
		require.NoError(t, err)
		assert.Equal(t, StatusLeft, m.Status)
	})

	t.Run("owner cannot leave", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		svc := newTestService(store, nil)

		_, err := svc.Leave(ctx, "owner", "g1")
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("no active membership yields not found", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		svc := newTestService(store, nil)

		_, err := svc.Leave(ctx, "stranger", "g1")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestTransferOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps roles", func(t *testing.T) {
		store := newFakeStore()
		ownerRow := seedOwner(store, "g1", "owner")
		target := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusApproved})
		svc := newTestService(store, nil)

		require.NoError(t, svc.TransferOwnership(ctx, "owner", "g1", target.ID))

		oldOwner, _ := store.GetByID(ctx, "g1", ownerRow.ID)
		newOwner, _ := store.GetByID(ctx, "g1", target.ID)
		assert.Equal(t, RoleMember, oldOwner.Role)
		assert.Equal(t, RoleOwner, newOwner.Role)

		// The former owner may now leave.
		_, err := svc.Leave(ctx, "owner", "g1")
		require.NoError(t, err)
	})

	t.Run("transfer to self is invalid", func(t *testing.T) {
		store := newFakeStore()
		ownerRow := seedOwner(store, "g1", "owner")
		svc := newTestService(store, nil)

		err := svc.TransferOwnership(ctx, "owner", "g1", ownerRow.ID)
		assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
	})

	t.Run("pending target yields conflict", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		pending := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusPending})
		svc := newTestService(store, nil)

		err := svc.TransferOwnership(ctx, "owner", "g1", pending.ID)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("requires approved membership", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusPending})
		svc := newTestService(store, nil)

		_, _, err := svc.List(ctx, "alice", "g1", ListFilter{}, pagination.Params{})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		svc := newTestService(store, nil)

		bogus := Status("BANNED")
		_, _, err := svc.List(ctx, "owner", "g1", ListFilter{Status: &bogus}, pagination.Params{})
		assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
	})

	t.Run("owner lists members", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusApproved})
		store.add(&Member{GroupID: "g1", UserID: "bob", Role: RoleMember, Status: StatusPending})
		svc := newTestService(store, nil)

		members, _, err := svc.List(ctx, "owner", "g1", ListFilter{}, pagination.Params{})
		require.NoError(t, err)
		assert.Len(t, members, 3)

		pending := StatusPending
		members, _, err = svc.List(ctx, "owner", "g1", ListFilter{Status: &pending}, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "bob", members[0].UserID)
	})

	t.Run("filters by member id", func(t *testing.T) {
		store := newFakeStore()
		seedOwner(store, "g1", "owner")
		alice := store.add(&Member{GroupID: "g1", UserID: "alice", Role: RoleMember, Status: StatusApproved})
		store.add(&Member{GroupID: "g1", UserID: "bob", Role: RoleMember, Status: StatusApproved})
		svc := newTestService(store, nil)

		members, _, err := svc.List(ctx, "owner", "g1", ListFilter{MemberIDs: []string{alice.ID}}, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "alice", members[0].UserID)
	})
}
