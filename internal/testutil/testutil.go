// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// UniqueDatabase returns a throwaway database name so parallel test runs never
// share a users collection. MongoDB limits names to 64 bytes.
func UniqueDatabase(t testing.TB) string {
	t.Helper()
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "roster_test_" + suffix[:16]
}
