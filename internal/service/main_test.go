//go:build integration

package service

import (
	"os"
	"testing"

	"github.com/guttosm/catering-service/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.Main(m, testutil.Mongo))
}
