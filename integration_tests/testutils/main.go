package testutils

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
)

// RunMain is shared by the TestMain of each integration package. It skips
// container setup under -short.
func RunMain(m *testing.M, env **TestEnvironment) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping integration tests in short mode")
		os.Exit(0)
	}

	e, err := NewTestEnvironment(context.Background())
	if err != nil {
		log.Fatalf("failed to set up test environment: %v", err)
	}
	*env = e

	code := m.Run()
	e.Close()
	os.Exit(code)
}
