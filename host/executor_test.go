package host

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/application/config"
	"github.com/winsoft666/node-addon-sample/hostfuncs"
	addonlog "github.com/winsoft666/node-addon-sample/log"
)

func newTestExecutor(t *testing.T, logger *slog.Logger) *Executor {
	t.Helper()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := config.Default()
	cfg.StepDelayMS = 0
	mod, err := addon.New(addon.WithConfig(cfg), addon.WithLogger(logger))
	require.NoError(t, err)

	ctx := context.Background()
	e, err := NewExecutor(ctx, WithAddon(mod), WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close(ctx) })
	return e
}

func loadTestGuest(t *testing.T, e *Executor, name string) *GuestInstance {
	t.Helper()
	wasmBytes, err := os.ReadFile("testdata/guest.wasm")
	require.NoError(t, err)

	g, err := e.LoadGuest(context.Background(), name, wasmBytes)
	require.NoError(t, err)
	return g
}

func TestNewExecutor(t *testing.T) {
	ctx := context.Background()
	e, err := NewExecutor(ctx, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, []string{"Add", "GetFileList", "GetPower10", "GetPower20", "GetPower30"}, e.Registry().Names())
	assert.NoError(t, e.Close(ctx))
}

func TestNewExecutor_CustomRegistry(t *testing.T) {
	ctx := context.Background()
	reg, err := hostfuncs.NewRegistry()
	require.NoError(t, err)

	e, err := NewExecutor(ctx, WithHostFunctions(reg), WithModuleName("custom_host"))
	require.NoError(t, err)
	defer e.Close(ctx)

	assert.Same(t, reg, e.Registry())

	// The guest imports addon_host, which this executor does not provide.
	wasmBytes, err := os.ReadFile("testdata/guest.wasm")
	require.NoError(t, err)
	_, err = e.LoadGuest(ctx, "guest", wasmBytes)
	assert.Error(t, err)
}

func TestGuest_CallOperations(t *testing.T) {
	e := newTestExecutor(t, nil)
	g := loadTestGuest(t, e, "guest")
	ctx := context.Background()

	resp, err := g.CallOperation(ctx, "call_add", 100, 200)
	require.NoError(t, err)
	assert.False(t, resp.IsError())
	assert.Equal(t, float64(300), resp.Value)

	resp, err = g.CallOperation(ctx, "call_add", 1)
	require.NoError(t, err)
	require.True(t, resp.IsError())
	assert.Equal(t, "TypeError: Wrong number of arguments", resp.Error.Error())

	resp, err = g.CallOperation(ctx, "call_power20", 2)
	require.NoError(t, err)
	assert.Equal(t, float64(1048576), resp.Value)

	resp, err = g.CallOperation(ctx, "call_power20", 0)
	require.NoError(t, err)
	require.True(t, resp.IsError())
	assert.Equal(t, "Error: N must larger than 0", resp.Error.Error())
}

func TestGuest_CallFileListRaw(t *testing.T) {
	e := newTestExecutor(t, nil)
	g := loadTestGuest(t, e, "guest")

	out, err := g.Call(context.Background(), "call_file_list", nil)
	require.NoError(t, err)
	assert.Equal(t,
		`{"value":[{"filePath":"/root/0.txt","fileSize":0},{"filePath":"/root/1.txt","fileSize":100},{"filePath":"/root/2.txt","fileSize":200}]}`,
		string(out))
}

func TestGuest_MalformedRequest(t *testing.T) {
	e := newTestExecutor(t, nil)
	g := loadTestGuest(t, e, "guest")

	_, err := g.CallOperation(context.Background(), "call_add", func() {})
	require.Error(t, err)

	out, err := g.Call(context.Background(), "call_add", []byte("{not json"))
	require.NoError(t, err)

	var errResp hostfuncs.ErrorResponse
	require.NoError(t, json.Unmarshal(out, &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Error)
}

func TestGuest_CallOperationResponseShapes(t *testing.T) {
	ctx := context.Background()
	respond := func(body string) hostfuncs.ByteHandler {
		return func(context.Context, []byte) ([]byte, error) { return []byte(body), nil }
	}
	reg, err := hostfuncs.NewRegistry(
		hostfuncs.WithByteHandler("Add", respond(string(hostfuncs.NewNotFoundError("Add").ToJSON()))),
		hostfuncs.WithByteHandler("GetPower20", respond(`{"error":{"type":"Error","message":"N must larger than 0"}}`)),
		hostfuncs.WithByteHandler("GetFileList", respond(`{"error":42}`)),
	)
	require.NoError(t, err)

	e, err := NewExecutor(ctx, WithHostFunctions(reg), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	defer e.Close(ctx)
	g := loadTestGuest(t, e, "guest")

	_, err = g.CallOperation(ctx, "call_add", 1, 2)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND: unknown host function: Add", err.Error())

	resp, err := g.CallOperation(ctx, "call_power20", 0)
	require.NoError(t, err)
	require.True(t, resp.IsError())
	assert.Equal(t, "Error: N must larger than 0", resp.Error.Error())
	assert.Nil(t, resp.Value)

	_, err = g.CallOperation(ctx, "call_file_list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected error field")
}

func TestGuest_MissingExport(t *testing.T) {
	e := newTestExecutor(t, nil)
	g := loadTestGuest(t, e, "guest")

	_, err := g.Call(context.Background(), "call_subtract", nil)
	assert.ErrorContains(t, err, `export "call_subtract" not found`)
}

func TestGuest_LogMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := addonlog.New(&buf, addonlog.WithJSON(true), addonlog.WithLevel(slog.LevelDebug))
	e := newTestExecutor(t, logger)
	g := loadTestGuest(t, e, "logging-guest")

	msg, err := json.Marshal(addonlog.LogMessageWire{
		Level:   "WARN",
		Message: "guest says hi",
		Attrs:   []addonlog.LogAttrWire{{Key: "n", Type: "int64", Value: "2"}},
	})
	require.NoError(t, err)
	require.NoError(t, g.Send(context.Background(), "log", msg))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "guest says hi", line["msg"])
	assert.Equal(t, "logging-guest", line["guest"])
	assert.Equal(t, float64(2), line["n"])
}

func TestGuest_MalformedLogMessage(t *testing.T) {
	var buf bytes.Buffer
	e := newTestExecutor(t, slog.New(slog.NewTextHandler(&buf, nil)))
	g := loadTestGuest(t, e, "guest")

	require.NoError(t, g.Send(context.Background(), "log", []byte("plain text")))
	assert.Contains(t, buf.String(), "malformed guest log message")
	assert.Contains(t, buf.String(), "plain text")
}

func TestLoadGuest_RequiresAllocate(t *testing.T) {
	e := newTestExecutor(t, nil)

	// (module) with no exports
	empty := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	_, err := e.LoadGuest(context.Background(), "empty", empty)
	assert.ErrorContains(t, err, "does not export 'allocate'")
}

func TestLoadGuestFile(t *testing.T) {
	e := newTestExecutor(t, nil)

	g, err := e.LoadGuestFile(context.Background(), "testdata/guest.wasm")
	require.NoError(t, err)
	assert.Equal(t, "testdata/guest.wasm", g.Name())
	assert.NoError(t, g.Close(context.Background()))

	_, err = e.LoadGuestFile(context.Background(), "testdata/missing.wasm")
	assert.Error(t, err)
}
