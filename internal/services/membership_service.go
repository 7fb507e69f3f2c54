package services

import (
	"errors"
	"fmt"

	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/permissions"
	"github.com/cloudtask/task-service/internal/repository"
	"gorm.io/gorm"
)

// MembershipDirectory answers role and membership questions for a project.
// Implementations must evaluate fresh per call; membership can change between
// requests and callers rely on seeing current state.
type MembershipDirectory interface {
	// ResolveRole returns the user's effective role in the project.
	// RoleNone means no access.
	ResolveRole(projectID uint64, userUID string) (permissions.Role, error)

	// MemberUIDs returns the set of UIDs with access to the project,
	// including the owner whether or not a membership row exists.
	MemberUIDs(projectID uint64) (map[string]struct{}, error)
}

// MembershipService manages project membership and implements
// MembershipDirectory.
type MembershipService struct {
	projectRepo repository.ProjectRepository
	memberRepo  repository.MemberRepository
	userRepo    repository.UserRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(projectRepo repository.ProjectRepository, memberRepo repository.MemberRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
	}
}

// ResolveRole resolves the user's effective role. Ownership is checked first
// and always wins: an owner who was demoted or removed in the members table
// still resolves as OWNER.
func (s *MembershipService) ResolveRole(projectID uint64, userUID string) (permissions.Role, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permissions.RoleNone, ErrProjectNotFound
		}
		return permissions.RoleNone, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerUID == userUID {
		return permissions.RoleOwner, nil
	}

	member, err := s.memberRepo.Find(projectID, userUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permissions.RoleNone, nil
		}
		return permissions.RoleNone, fmt.Errorf("failed to find membership: %w", err)
	}

	return member.Role, nil
}

// MemberUIDs returns all UIDs with access to the project, owner included.
func (s *MembershipService) MemberUIDs(projectID uint64) (map[string]struct{}, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	members, err := s.memberRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	uids := make(map[string]struct{}, len(members)+1)
	uids[project.OwnerUID] = struct{}{}
	for _, m := range members {
		uids[m.UserUID] = struct{}{}
	}
	return uids, nil
}

// HasAccess reports whether the user may see the project at all.
func (s *MembershipService) HasAccess(projectID uint64, userUID string) (bool, error) {
	role, err := s.ResolveRole(projectID, userUID)
	if err != nil {
		return false, err
	}
	return role != permissions.RoleNone, nil
}

// Members lists the project's membership rows.
func (s *MembershipService) Members(projectID uint64) ([]models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return s.memberRepo.ListByProject(projectID)
}

// AddMember adds a user to the project by email. Only owners and admins may
// add members.
func (s *MembershipService) AddMember(projectID uint64, email string, role permissions.Role, actorUID string) (*models.ProjectMember, error) {
	actorRole, err := s.ResolveRole(projectID, actorUID)
	if err != nil {
		return nil, err
	}
	if actorRole != permissions.RoleOwner && actorRole != permissions.RoleAdmin {
		return nil, fmt.Errorf("%w: only owners and admins can add members", ErrPermissionDenied)
	}

	if !permissions.Valid(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	exists, err := s.memberRepo.Exists(projectID, user.FirebaseUID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserUID:   user.FirebaseUID,
		Role:      role,
	}
	if err := s.memberRepo.Add(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// RemoveMember removes a user from the project. Only owners and admins may
// remove members, and the owner can never be removed.
func (s *MembershipService) RemoveMember(projectID uint64, userUID, actorUID string) error {
	actorRole, err := s.ResolveRole(projectID, actorUID)
	if err != nil {
		return err
	}
	if actorRole != permissions.RoleOwner && actorRole != permissions.RoleAdmin {
		return fmt.Errorf("%w: only owners and admins can remove members", ErrPermissionDenied)
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	if project.OwnerUID == userUID {
		return ErrCannotRemoveOwner
	}

	if err := s.memberRepo.Remove(projectID, userUID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
