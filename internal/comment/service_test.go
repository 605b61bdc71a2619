package comment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/grouppic/internal/member"
	"github.com/fkhayef/grouppic/pkg/apperror"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

type fakeStore struct {
	comments map[string]*Comment
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{comments: make(map[string]*Comment)}
}

func (f *fakeStore) Create(ctx context.Context, contentID, memberID, body string) (*Comment, error) {
	f.nextID++
	now := time.Now()
	c := &Comment{
		ID:        fmt.Sprintf("cm%03d", f.nextID),
		ContentID: contentID,
		MemberID:  memberID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: &now,
	}
	f.comments[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetByID(ctx context.Context, commentID string) (*Comment, error) {
	c, ok := f.comments[commentID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListByContent(ctx context.Context, contentID string, p pagination.Params) ([]*Comment, error) {
	var out []*Comment
	for _, c := range f.comments {
		if c.ContentID == contentID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateBody(ctx context.Context, commentID, body string) (*Comment, error) {
	c, ok := f.comments[commentID]
	if !ok {
		return nil, nil
	}
	c.Body = body
	updated := time.Now()
	c.UpdatedAt = &updated
	cp := *c
	return &cp, nil
}

func (f *fakeStore) Delete(ctx context.Context, commentID string) error {
	delete(f.comments, commentID)
	return nil
}

// fakeGateway resolves content access from a fixed membership table and
// comment ownership through the store, like the real gateway's joins.
type fakeGateway struct {
	store    *fakeStore
	members  map[string]*member.Member // keyed by user ID
	byMember map[string]*member.Member // keyed by member ID
}

func newFakeGateway(store *fakeStore, members ...*member.Member) *fakeGateway {
	gw := &fakeGateway{
		store:    store,
		members:  make(map[string]*member.Member),
		byMember: make(map[string]*member.Member),
	}
	for _, m := range members {
		gw.members[m.UserID] = m
		gw.byMember[m.ID] = m
	}
	return gw
}

func (f *fakeGateway) ContentMember(ctx context.Context, contentID, userID string) (*member.Member, error) {
	m, ok := f.members[userID]
	if !ok || m.Status != member.StatusApproved {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeGateway) CommentOwner(ctx context.Context, commentID string) (*member.Member, error) {
	c, ok := f.store.comments[commentID]
	if !ok {
		return nil, nil
	}
	m, ok := f.byMember[c.MemberID]
	if !ok || m.Status != member.StatusApproved {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func newTestService() (*fakeStore, *fakeGateway, *Service) {
	store := newFakeStore()
	gw := newFakeGateway(store,
		&member.Member{ID: "m-alice", GroupID: "g1", UserID: "alice", Username: "alice", Role: member.RoleMember, Status: member.StatusApproved},
		&member.Member{ID: "m-bob", GroupID: "g1", UserID: "bob", Username: "bob", Role: member.RoleMember, Status: member.StatusApproved},
	)
	return store, gw, NewService(store, gw)
}

func TestCreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("member comments on visible content", func(t *testing.T) {
		_, _, svc := newTestService()

		c, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "nice shot"})
		require.NoError(t, err)
		assert.Equal(t, "m-alice", c.MemberID)
		assert.Equal(t, "alice", c.AuthorUsername)
	})

	t.Run("outsider sees not found", func(t *testing.T) {
		_, _, svc := newTestService()

		_, err := svc.Create(ctx, "stranger", "c1", &CreateCommentRequest{Body: "hi"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("empty body is invalid", func(t *testing.T) {
		_, _, svc := newTestService()

		_, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "   "})
		assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
	})
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("author edits own comment", func(t *testing.T) {
		_, _, svc := newTestService()
		c, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "first"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "alice", c.ID, &UpdateCommentRequest{Body: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Body)
		assert.Equal(t, "alice", updated.AuthorUsername)
	})

	t.Run("other member is forbidden", func(t *testing.T) {
		_, _, svc := newTestService()
		c, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "first"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, "bob", c.ID, &UpdateCommentRequest{Body: "hijack"})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("missing comment yields not found", func(t *testing.T) {
		_, _, svc := newTestService()

		_, err := svc.Update(ctx, "alice", "missing", &UpdateCommentRequest{Body: "edit"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("comment without an approved owner yields not found", func(t *testing.T) {
		_, gw, svc := newTestService()
		c, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "first"})
		require.NoError(t, err)

		// The author left the group; their row no longer grants ownership.
		gw.byMember["m-alice"].Status = member.StatusLeft

		_, err = svc.Update(ctx, "alice", c.ID, &UpdateCommentRequest{Body: "edit"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("author deletes own comment", func(t *testing.T) {
		store, _, svc := newTestService()
		c, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "first"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, "alice", c.ID))
		assert.Empty(t, store.comments)
	})

	t.Run("other member is forbidden", func(t *testing.T) {
		store, _, svc := newTestService()
		c, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "first"})
		require.NoError(t, err)

		err = svc.Delete(ctx, "bob", c.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.Len(t, store.comments, 1)
	})

	t.Run("missing comment yields not found", func(t *testing.T) {
		_, _, svc := newTestService()

		err := svc.Delete(ctx, "alice", "missing")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestListByContent(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTestService()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "alice", "c1", &CreateCommentRequest{Body: "hello"})
		require.NoError(t, err)
	}

	comments, _, err := svc.ListByContent(ctx, "bob", "c1", pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, comments, 3)

	_, _, err = svc.ListByContent(ctx, "stranger", "c1", pagination.Params{})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
