package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("creator becomes the first member", func(t *testing.T) {
		g, err := env.svc.CreateGroup(ctx, CreateGroupInput{Name: "  Roommates ", Description: "rent", CreatorID: "alice"})
		require.NoError(t, err)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, "Roommates", g.Name)
		assert.Equal(t, testNow.Unix(), g.CreatedAt)

		members, err := env.svc.ListMembers(ctx, g.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, members)
	})

	tests := []struct {
		name string
		in   CreateGroupInput
	}{
		{"missing name", CreateGroupInput{Name: "   ", CreatorID: "alice"}},
		{"missing creator", CreateGroupInput{Name: "Trip"}},
		{"name too long", CreateGroupInput{Name: strings.Repeat("x", 101), CreatorID: "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateGroup(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestJoinGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "Trip", "alice")

	membership, err := env.svc.JoinGroup(ctx, g.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, g.ID, membership.GroupID)
	assert.Equal(t, "bob", membership.UserID)

	t.Run("joining twice is a soft conflict", func(t *testing.T) {
		_, err := env.svc.JoinGroup(ctx, g.ID, "bob")
		require.ErrorIs(t, err, ErrAlreadyMember)

		members, err := env.svc.ListMembers(ctx, g.ID, "bob")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, members)

		groups, err := env.svc.ListGroupsForUser(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, 2, groups[0].MemberCount)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := env.svc.JoinGroup(ctx, "no-such-group", "bob")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty ids", func(t *testing.T) {
		_, err := env.svc.JoinGroup(ctx, g.ID, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	assert.Equal(t, 1.0, counterValue(t, env.reg, "ledger_operation_errors_total",
		map[string]string{"op": "join_group", "kind": KindAlreadyMember}))
}

func TestGroupReadsRequireMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "Private", "alice", "bob")

	got, err := env.svc.GetGroup(ctx, g.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, g.Name, got.Name)

	_, err = env.svc.GetGroup(ctx, g.ID, "mallory")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.svc.ListMembers(ctx, g.ID, "mallory")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.svc.GetGroup(ctx, "missing", "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetGroupDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "Cabin", "carol", "alice", "bob")

	detail, err := env.svc.GetGroupDetail(ctx, g.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, g.ID, detail.Group.ID)
	assert.Equal(t, []string{"alice", "bob", "carol"}, detail.Members)

	ops := func(op string) uint64 {
		return histogramCount(t, env.reg, "ledger_operation_duration_seconds", map[string]string{"op": op})
	}
	assert.Equal(t, uint64(1), ops("get_group_detail"), "one operation recorded per call")
	assert.Zero(t, ops("get_group"))
	assert.Zero(t, ops("list_members"))

	_, err = env.svc.GetGroupDetail(ctx, g.ID, "mallory")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.svc.GetGroupDetail(ctx, "missing", "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListGroupsForUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	older := env.group(t, "Older", "alice", "bob", "carol")
	env.clock.Advance(time.Hour)
	newer := env.group(t, "Newer", "bob", "alice")
	env.group(t, "Unrelated", "dave")

	groups, err := env.svc.ListGroupsForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, newer.ID, groups[0].ID)
	assert.Equal(t, 2, groups[0].MemberCount)
	assert.Equal(t, older.ID, groups[1].ID)
	assert.Equal(t, 3, groups[1].MemberCount)
}
