package group

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fkhayef/grouppic/pkg/apperror"
)

// codeAttempts bounds the collision retry loop when generating a code.
const codeAttempts = 5

// InviteService issues, rotates and invalidates group invitation codes.
type InviteService struct {
	store  Store
	owners OwnerChecker
}

// NewInviteService creates a new invitation code service
func NewInviteService(store Store, owners OwnerChecker) *InviteService {
	return &InviteService{store: store, owners: owners}
}

// Get returns the group's invitation code, generating one if the group has
// none. Calling it repeatedly without a refresh returns the same code.
func (s *InviteService) Get(ctx context.Context, requesterID, groupID string) (string, error) {
	if err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return "", err
	}

	group, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return "", err
	}
	if group == nil || group.Deleted() {
		return "", apperror.NotFound("group not found")
	}
	if group.InvitationCode != nil {
		return *group.InvitationCode, nil
	}

	for i := 0; i < codeAttempts; i++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		updated, err := s.store.SetInvitationCodeIfAbsent(ctx, groupID, code)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", err
		}
		if updated == nil {
			// A concurrent caller assigned a code first; return theirs.
			current, err := s.store.GetByID(ctx, groupID)
			if err != nil {
				return "", err
			}
			if current == nil || current.Deleted() || current.InvitationCode == nil {
				return "", apperror.NotFound("group not found")
			}
			return *current.InvitationCode, nil
		}

		slog.Info("invitation code issued", "group_id", groupID)
		return *updated.InvitationCode, nil
	}

	return "", fmt.Errorf("failed to generate a unique invitation code after %d attempts", codeAttempts)
}

// Refresh replaces the group's code. The previous code stops resolving in the
// same update.
func (s *InviteService) Refresh(ctx context.Context, requesterID, groupID string) (string, error) {
	if err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return "", err
	}

	for i := 0; i < codeAttempts; i++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		updated, err := s.store.ReplaceInvitationCode(ctx, groupID, code)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", err
		}
		if updated == nil {
			return "", apperror.NotFound("group not found")
		}

		slog.Info("invitation code rotated", "group_id", groupID)
		return *updated.InvitationCode, nil
	}

	return "", fmt.Errorf("failed to generate a unique invitation code after %d attempts", codeAttempts)
}

// Delete clears the group's code; stale codes then fail to resolve
func (s *InviteService) Delete(ctx context.Context, requesterID, groupID string) error {
	if err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return err
	}

	group, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil || group.Deleted() {
		return apperror.NotFound("group not found")
	}

	// Clearing an absent code is a no-op success.
	if _, err := s.store.ClearInvitationCode(ctx, groupID); err != nil {
		return err
	}

	slog.Info("invitation code cleared", "group_id", groupID)
	return nil
}

// ResolveID resolves an invitation code to a group ID. It satisfies the
// member package's CodeResolver.
func (s *InviteService) ResolveID(ctx context.Context, code string) (string, error) {
	group, err := s.store.GetByInvitationCode(ctx, code)
	if err != nil {
		return "", err
	}
	if group == nil {
		return "", apperror.NotFound("invitation code does not resolve to a group")
	}
	return group.ID, nil
}

func (s *InviteService) requireOwner(ctx context.Context, groupID, userID string) error {
	ok, err := s.owners.IsOwner(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Forbidden("only the group owner can manage invitation codes")
	}
	return nil
}

// generateCode returns an opaque 16-character invitation token.
func generateCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
