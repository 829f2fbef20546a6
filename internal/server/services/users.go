package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/logging"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/repomanager"
	"golang.org/x/crypto/blake2b"
)

// UserService registers user identities. Only a one-way hash of the
// username is stored.
type UserService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewUserService(rm repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{repomanager: rm, logger: logger.With("module", "users")}
}

// IdentityHash returns the hex BLAKE2b-256 digest of username.
func IdentityHash(username string) string {
	sum := blake2b.Sum256([]byte(username))
	return hex.EncodeToString(sum[:])
}

// Declare returns the user for username, creating it on first use.
func (s *UserService) Declare(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorIncorrectArgument)
	}

	u, err := s.repomanager.Users(s.repomanager.Conn()).Declare(ctx, IdentityHash(username))
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "user declared", "id", u.ID)
	return u, nil
}
