package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
)

const (
	groupCodeLength   = 8
	joinCodeLength    = 10
	codeRetryAttempts = 5
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type CreateGroupInput struct {
	Name        string
	Description *string
	Password    string
}

type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, input *CreateGroupInput) (*domain.Group, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	JoinGroup(ctx context.Context, code, password string) (*domain.Group, error)
	LeaveGroup(ctx context.Context, groupID uuid.UUID) error
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error
	AddSubGroup(ctx context.Context, groupID uuid.UUID, name string) (*domain.SubGroup, error)
	EditSubGroup(ctx context.Context, subGroup *domain.SubGroup) error
	DeleteSubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) error
}

type groupService struct {
	groups GroupRepository
	access *Access
}

func NewGroupService(groups GroupRepository, access *Access) GroupServiceInterface {
	return &groupService{
		groups: groups,
		access: access,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, input *CreateGroupInput) (*domain.Group, error) {
	if !isStaff(callerRole(ctx)) {
		return nil, fmt.Errorf("only staff may create groups: %w", errdefs.ErrPermissionDenied)
	}

	if input.Name == "" {
		return nil, fmt.Errorf("group name is required: %w", errdefs.ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("group password is required: %w", errdefs.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Codes are unique across all groups. The db constraint is the source of
	// truth; a collision comes back as a conflict and we regenerate.
	for attempt := 0; attempt < codeRetryAttempts; attempt++ {
		group := &domain.Group{
			Name:         input.Name,
			Description:  input.Description,
			PasswordHash: hash,
			Status:       domain.GroupStatusActive,
		}
		if group.GroupCode, err = generateJoinCode(groupCodeLength); err != nil {
			return nil, err
		}
		if group.AdminJoinCode, err = generateJoinCode(joinCodeLength); err != nil {
			return nil, err
		}
		if group.StudentJoinCode, err = generateJoinCode(joinCodeLength); err != nil {
			return nil, err
		}

		err = s.groups.Create(ctx, group)
		if err == nil {
			return group, nil
		}
		if !errors.Is(err, errdefs.ErrConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to generate unique join codes after %d attempts", codeRetryAttempts)
}

func (s *groupService) GetGroup(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole(ctx) == domain.UserRoleStudent {
		if err := s.access.RequireMember(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	return group, nil
}

// JoinGroup resolves the group by its student-facing code, verifies the
// password and adds the caller to the member set. Joining twice leaves a
// single membership entry.
func (s *groupService) JoinGroup(ctx context.Context, code, password string) (*domain.Group, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.GetByStudentCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if group.Status != domain.GroupStatusActive {
		return nil, fmt.Errorf("group is not accepting members: %w", errdefs.ErrValidation)
	}

	if err := bcrypt.CompareHashAndPassword(group.PasswordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("incorrect group password: %w", errdefs.ErrUnauthenticated)
	}

	if err := s.groups.AddMember(ctx, group.ID, userID); err != nil {
		return nil, err
	}

	s.access.Invalidate(ctx, group.ID, userID)
	return group, nil
}

func (s *groupService) LeaveGroup(ctx context.Context, groupID uuid.UUID) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}

	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}

	s.access.Invalidate(ctx, groupID, userID)
	return nil
}

// DeleteGroup cascades through assignments and submissions. The cascade is
// explicit and transactional in the repository.
func (s *groupService) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	if callerRole(ctx) != domain.UserRoleAdmin {
		return fmt.Errorf("only admins may delete groups: %w", errdefs.ErrPermissionDenied)
	}
	return s.groups.Delete(ctx, groupID)
}

func (s *groupService) AddSubGroup(ctx context.Context, groupID uuid.UUID, name string) (*domain.SubGroup, error) {
	if !isStaff(callerRole(ctx)) {
		return nil, fmt.Errorf("only staff may manage subgroups: %w", errdefs.ErrPermissionDenied)
	}
	if name == "" {
		return nil, fmt.Errorf("subgroup name is required: %w", errdefs.ErrValidation)
	}

	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	subGroup := &domain.SubGroup{
		GroupID: groupID,
		Name:    name,
		Status:  domain.SubGroupStatusActive,
	}
	if err := s.groups.AddSubGroup(ctx, subGroup); err != nil {
		return nil, err
	}

	return subGroup, nil
}

func (s *groupService) EditSubGroup(ctx context.Context, subGroup *domain.SubGroup) error {
	if !isStaff(callerRole(ctx)) {
		return fmt.Errorf("only staff may manage subgroups: %w", errdefs.ErrPermissionDenied)
	}
	if subGroup.Name == "" {
		return fmt.Errorf("subgroup name is required: %w", errdefs.ErrValidation)
	}
	return s.groups.UpdateSubGroup(ctx, subGroup)
}

func (s *groupService) DeleteSubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) error {
	if !isStaff(callerRole(ctx)) {
		return fmt.Errorf("only staff may manage subgroups: %w", errdefs.ErrPermissionDenied)
	}
	return s.groups.DeleteSubGroup(ctx, groupID, subGroupID)
}

func generateJoinCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	for i := range buf {
		buf[i] = codeCharset[int(buf[i])%len(codeCharset)]
	}
	return string(buf), nil
}
