// Package identity resolves the authenticated caller. Authentication
// itself happens upstream (gateway/JWT middleware); this package only
// consumes the identity it forwards and loads the matching account.
package identity

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
)

// Errors returned by providers.
var (
	ErrUnauthenticated = errors.New("request is not authenticated")
	ErrInactiveUser    = errors.New("user account is inactive")
)

// Provider resolves the calling user from a request.
type Provider interface {
	UserFromRequest(c *gin.Context) (*models.User, error)
}

// HeaderProvider trusts the X-User-ID header set by the authenticating
// gateway in front of this service.
type HeaderProvider struct {
	users *repository.UserRepository
}

// NewHeaderProvider creates a header-based provider.
func NewHeaderProvider(users *repository.UserRepository) *HeaderProvider {
	return &HeaderProvider{users: users}
}

// UserFromRequest implements Provider.
func (p *HeaderProvider) UserFromRequest(c *gin.Context) (*models.User, error) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return nil, ErrUnauthenticated
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := p.users.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// StaticProvider always returns a fixed user. Used in tests.
type StaticProvider struct {
	User *models.User
	Err  error
}

// UserFromRequest implements Provider.
func (p *StaticProvider) UserFromRequest(_ *gin.Context) (*models.User, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.User, nil
}
