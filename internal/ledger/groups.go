package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/groupledger/internal/models"
)

// CreateGroupInput describes a new group.
type CreateGroupInput struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	CreatorID   string `validate:"required"`
}

// CreateGroup creates a group with its creator as the first member.
func (s *Service) CreateGroup(ctx context.Context, in CreateGroupInput) (group *models.Group, err error) {
	defer s.observe("create_group", time.Now(), &err)

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err = s.checkStruct(in); err != nil {
		logResult("CreateGroup", err, "creator_id", in.CreatorID)
		return nil, err
	}

	group = &models.Group{
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   in.CreatorID,
	}
	if err = s.store.CreateGroup(ctx, group); err != nil {
		err = fmt.Errorf("failed to create group: %w", err)
		logResult("CreateGroup", err, "creator_id", in.CreatorID)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "creator_id", group.CreatedBy)
	return group, nil
}

// JoinGroup adds userID to a group. Joining twice returns ErrAlreadyMember
// and leaves the existing membership untouched.
func (s *Service) JoinGroup(ctx context.Context, groupID, userID string) (membership *models.Membership, err error) {
	defer s.observe("join_group", time.Now(), &err)

	if err = checkIDs("group_id", groupID, "user_id", userID); err != nil {
		return nil, err
	}

	membership, err = s.store.AddMember(ctx, groupID, userID)
	if err != nil {
		err = fmt.Errorf("failed to join group: %w", err)
		logResult("JoinGroup", err, "group_id", groupID, "user_id", userID)
		return nil, err
	}

	slog.Info("Group joined", "group_id", groupID, "user_id", userID)
	return membership, nil
}

// ListGroupsForUser returns the groups userID belongs to, newest first.
func (s *Service) ListGroupsForUser(ctx context.Context, userID string) (groups []*models.GroupSummary, err error) {
	defer s.observe("list_groups", time.Now(), &err)

	if err = checkIDs("user_id", userID); err != nil {
		return nil, err
	}
	groups, err = s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		err = fmt.Errorf("failed to list groups: %w", err)
		logResult("ListGroupsForUser", err, "user_id", userID)
		return nil, err
	}
	return groups, nil
}

// GetGroup returns a group to one of its members.
func (s *Service) GetGroup(ctx context.Context, groupID, requestingUserID string) (group *models.Group, err error) {
	defer s.observe("get_group", time.Now(), &err)

	group, err = s.requireMember(ctx, groupID, requestingUserID)
	if err != nil {
		logResult("GetGroup", err, "group_id", groupID, "user_id", requestingUserID)
		return nil, err
	}
	return group, nil
}

// ListMembers returns a group's member IDs in ascending order to one of its
// members.
func (s *Service) ListMembers(ctx context.Context, groupID, requestingUserID string) (members []string, err error) {
	defer s.observe("list_members", time.Now(), &err)

	if _, err = s.requireMember(ctx, groupID, requestingUserID); err != nil {
		logResult("ListMembers", err, "group_id", groupID, "user_id", requestingUserID)
		return nil, err
	}
	members, err = s.store.ListMembers(ctx, groupID)
	if err != nil {
		err = fmt.Errorf("failed to list members: %w", err)
		logResult("ListMembers", err, "group_id", groupID)
		return nil, err
	}
	return members, nil
}

// GroupDetail is a group together with its member IDs.
type GroupDetail struct {
	Group   *models.Group
	Members []string
}

// GetGroupDetail returns a group and its members, in ascending order, to one
// of its members.
func (s *Service) GetGroupDetail(ctx context.Context, groupID, requestingUserID string) (detail *GroupDetail, err error) {
	defer s.observe("get_group_detail", time.Now(), &err)

	var group *models.Group
	if group, err = s.requireMember(ctx, groupID, requestingUserID); err != nil {
		logResult("GetGroupDetail", err, "group_id", groupID, "user_id", requestingUserID)
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		err = fmt.Errorf("failed to list members: %w", err)
		logResult("GetGroupDetail", err, "group_id", groupID)
		return nil, err
	}
	return &GroupDetail{Group: group, Members: members}, nil
}

// requireMember loads a group and checks userID belongs to it.
func (s *Service) requireMember(ctx context.Context, groupID, userID string) (*models.Group, error) {
	if err := checkIDs("group_id", groupID, "user_id", userID); err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	member, err := s.store.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", ErrUnauthorized, userID, groupID)
	}
	return group, nil
}
