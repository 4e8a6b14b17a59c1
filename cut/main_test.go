package cut_test

import (
	"io"
	"testing"

	"go.uber.org/goleak"

	"github.com/ezoic/cutflow/pkg/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() log.Logger {
	return log.NewZerologProviderWithWriter(io.Discard, log.Disabled).GetLogger("cut")
}
