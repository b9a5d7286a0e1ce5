package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

type seedFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile signs up every user listed in the YAML file at path and
// returns how many were created. Existing usernames are left untouched. An
// empty path is a no-op.
func (s *AuthService) SeedFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	created := 0
	for _, u := range sf.Users {
		_, err := s.SignUp(ctx, ports.SignUpInput{Username: u.Username, Password: u.Password, Role: u.Role})
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrUserExists):
			s.log.Debug().Str("username", u.Username).Msg("seed user already exists")
		default:
			return created, fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}
	return created, nil
}
