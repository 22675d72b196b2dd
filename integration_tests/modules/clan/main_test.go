package clanintegration

import (
	"testing"

	"github.com/Black-And-White-Club/rhythm-ranking/integration_tests/testutils"
)

var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	testutils.RunMain(m, &testEnv)
}
