package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/ports"
)

// CreateUser registers a new account. Username and email must be unique
// among live rows; the repository surfaces violations as ErrConflict.
func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (domain.User, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Username = strings.TrimSpace(strings.ToLower(params.Username))
	params.Email = strings.TrimSpace(strings.ToLower(params.Email))

	if params.Name == "" || params.Username == "" || params.Email == "" {
		return domain.User{}, fmt.Errorf("%w: name, username and email are required", domain.ErrInvalidInput)
	}
	if !strings.Contains(params.Email, "@") {
		return domain.User{}, fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(params.Password); err != nil {
		return domain.User{}, err
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:         params.Name,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: passwordHash,
		StatusID:     params.StatusID,
		LevelID:      params.LevelID,
		GenderID:     params.GenderID,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("operation", "create_user"),
		slog.Int64("user_id", user.ID),
	)
	return user, nil
}

// GetUser returns one live account.
func (s *Service) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns one page of live accounts matching the filter.
func (s *Service) ListUsers(ctx context.Context, params ListUsersParams) (UserList, error) {
	page := params.Page.clamp()
	users, total, err := s.users.List(ctx, ports.UserFilter{
		Search:   strings.TrimSpace(params.Search),
		StatusID: params.StatusID,
		LevelID:  params.LevelID,
	}, page.Limit, page.Offset)
	if err != nil {
		return UserList{}, err
	}
	return UserList{Users: users, Total: total}, nil
}

// UpdateUser applies a partial edit. The master account may be renamed but
// never deactivated.
func (s *Service) UpdateUser(ctx context.Context, id int64, params UpdateUserParams) (domain.User, error) {
	if id == domain.MasterUserID && params.StatusID != nil && *params.StatusID != domain.StatusActive {
		return domain.User{}, domain.ErrProtectedUser
	}
	if params.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*params.Email))
		if !strings.Contains(email, "@") {
			return domain.User{}, fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
		}
		params.Email = &email
	}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return domain.User{}, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		params.Name = &name
	}

	if err := s.users.Update(ctx, id, ports.UpdateUserParams{
		Name:     params.Name,
		Email:    params.Email,
		StatusID: params.StatusID,
		LevelID:  params.LevelID,
		GenderID: params.GenderID,
	}); err != nil {
		return domain.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

// ChangePassword replaces an account's password and drops its sessions.
func (s *Service) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, passwordHash, s.nowFn()); err != nil {
		return err
	}
	if err := s.sessions.RevokeAllByUser(ctx, id, s.nowFn()); err != nil {
		s.logger.WarnContext(ctx, "session revocation after password change failed",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// DeleteUser soft-deletes an account, releasing its username and email for
// reuse. The master account cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if id == domain.MasterUserID {
		return domain.ErrProtectedUser
	}
	if err := s.users.SoftDelete(ctx, id, s.nowFn()); err != nil {
		return err
	}
	if err := s.sessions.RevokeAllByUser(ctx, id, s.nowFn()); err != nil {
		s.logger.WarnContext(ctx, "session revocation after delete failed",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
	}
	s.logger.InfoContext(ctx, "user soft-deleted",
		slog.String("operation", "delete_user"),
		slog.Int64("user_id", id),
	)
	return nil
}

// RestoreUser undoes a soft delete. Fails with ErrConflict if the username
// or email was reused in the meantime.
func (s *Service) RestoreUser(ctx context.Context, id int64) error {
	return s.users.Restore(ctx, id)
}

// PurgeUser permanently removes an already-soft-deleted account.
func (s *Service) PurgeUser(ctx context.Context, id int64) error {
	if id == domain.MasterUserID {
		return domain.ErrProtectedUser
	}
	if err := s.users.HardDelete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user purged",
		slog.String("operation", "purge_user"),
		slog.Int64("user_id", id),
	)
	return nil
}
