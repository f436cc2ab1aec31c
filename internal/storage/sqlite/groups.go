package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// CreateGroup persists a new group and its creator's membership in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate ID if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = s.now().Unix()
	}

	return s.withTx(ctx, "create group", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, description, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
			group.ID, group.Name, group.Description, group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		// Add creator as first member
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
			group.ID, group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert creator membership: %w", err)
		}
		return nil
	})
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, storage.Wrap("get group", fmt.Errorf("failed to get group: %w", err))
	}
	return group, nil
}

// ListGroupsForUser returns the groups a user belongs to with their member counts.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at,
		       (SELECT COUNT(*) FROM group_members c WHERE c.group_id = g.id) AS member_count
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, storage.Wrap("list groups", fmt.Errorf("failed to list groups: %w", err))
	}
	defer rows.Close()

	var groups []*models.GroupSummary
	for rows.Next() {
		g := &models.GroupSummary{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.MemberCount); err != nil {
			return nil, storage.Wrap("list groups", fmt.Errorf("failed to scan group: %w", err))
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list groups", fmt.Errorf("failed to iterate groups: %w", err))
	}
	return groups, nil
}

// AddMember inserts a membership after checking the group exists and the
// user is not already a member.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	membership := &models.Membership{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: s.now().Unix(),
	}

	err := s.withTx(ctx, "add member", func(tx *sql.Tx) error {
		exists, err := groupExists(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
		}

		member, err := isMember(ctx, tx, groupID, userID)
		if err != nil {
			return err
		}
		if member {
			return fmt.Errorf("user %s in group %s: %w", userID, groupID, storage.ErrAlreadyMember)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
			membership.GroupID, membership.UserID, membership.JoinedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// ListMembers returns member user IDs in ascending order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, storage.Wrap("list members", fmt.Errorf("failed to get members: %w", err))
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, storage.Wrap("list members", fmt.Errorf("failed to scan member: %w", err))
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list members", fmt.Errorf("failed to iterate members: %w", err))
	}
	return members, nil
}

// IsMember reports whether the user belongs to the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	ok, err := isMember(ctx, s.db, groupID, userID)
	if err != nil {
		return false, storage.Wrap("is member", err)
	}
	return ok, nil
}
