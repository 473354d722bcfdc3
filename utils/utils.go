package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/groupcup/brackets"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, BcryptCost)
}

func HashPasswordWithCost(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NormalizeNames trims every name and reports the first empty, repeated or
// reserved one. Names are compared case-insensitively.
func NormalizeNames(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("player #%d has an empty name", i+1)
		}
		if brackets.IsReservedName(name) {
			return nil, fmt.Errorf("player name %q is reserved for bracket placeholders", name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("player %q is listed more than once", name)
		}
		seen[key] = true
		out = append(out, name)
	}
	return out, nil
}
