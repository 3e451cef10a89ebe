package user

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUser returns ErrNotFound when no User matches the filter.
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		// UpdateOrCreateUser upserts on User.Email.
		UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo Repository
		conf *core.Config
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

func (svc *Service) checkUniqueness(email string) error {
	_, err := svc.repo.GetUser(context.Background(), GetFilter{Email: email})
	switch {
	case err == nil:
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	case pkgerrors.Cause(err) == ErrNotFound:
		return nil
	default:
		return pkgerrors.Wrap(err, "checking email uniqueness")
	}
}

// IsAdmin reports whether usr holds an admin role or is one of the configured admin identities.
func (svc *Service) IsAdmin(usr User) bool {
	return usr.IsActive && (usr.IsAdmin() || svc.conf.IsAdminEmail(usr.Email))
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := NowFunc().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		IsActive:  true,
		Roles:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.IsAdmin {
		usr.Roles = AdminRoles
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, pkgerrors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

// AddUser creates the User or, if the email is taken, updates its name, password and roles.
func (svc *Service) AddUser(ctx context.Context, nu NewUser) (User, error) {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	if err := core.Validate.Struct(nu); err != nil {
		return User{}, err
	}

	now := NowFunc().UTC()
	usr, err := svc.repo.GetUser(ctx, GetFilter{Email: nu.Email})
	if err != nil {
		if pkgerrors.Cause(err) != ErrNotFound {
			return User{}, pkgerrors.Wrap(err, "finding user by email")
		}
		usr = User{Email: nu.Email, Roles: []string{}, CreatedAt: now}
	}
	usr.Name = nu.Name
	usr.IsActive = true
	usr.UpdatedAt = now
	if nu.IsAdmin {
		usr.Roles = AdminRoles
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, pkgerrors.Wrap(err, "setting password")
	}
	return svc.repo.UpdateOrCreateUser(ctx, usr)
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetPassword) (User, error) {
	usr, err := svc.GetByEmail(ctx, rp.Email)
	if err != nil {
		return User{}, err
	}
	rp.name = usr.Name
	if err := rp.Validate(); err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(rp.Password); err != nil {
		return User{}, pkgerrors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}
