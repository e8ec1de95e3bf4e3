package logctx

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFromContextFallback(t *testing.T) {
	// Neither nil nor bare contexts may panic or return a zero logger.
	logger := FromContext(nil)
	logger.Info().Msg("")

	logger = FromContext(context.Background())
	logger.Info().Msg("")
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	injected := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), injected)
	logger := FromContext(ctx)
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("injected logger not used: %q", buf.String())
	}
}

func TestWithStr(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))
	ctx = WithStr(ctx, "input", "test.ibu")

	logger := FromContext(ctx)
	logger.Info().Msg("msg")
	if !strings.Contains(buf.String(), `"input":"test.ibu"`) {
		t.Errorf("field not propagated: %q", buf.String())
	}
}

func TestConfigureLevels(t *testing.T) {
	if l := Configure(false, false); l.GetLevel() != zerolog.InfoLevel {
		t.Errorf("default level = %v, want info", l.GetLevel())
	}
	if l := Configure(true, false); l.GetLevel() != zerolog.DebugLevel {
		t.Errorf("debug level = %v, want debug", l.GetLevel())
	}
}
