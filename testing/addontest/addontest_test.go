package addontest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/application/config"
	"github.com/winsoft666/node-addon-sample/binding"
	"github.com/winsoft666/node-addon-sample/domain/errors"
)

func TestRunOperationTests(t *testing.T) {
	cfg := config.Default()
	cfg.StepDelayMS = 0
	mod, err := addon.New(addon.WithConfig(cfg), addon.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	RunOperationTests(t, mod, []TestCase{
		{
			Name: "add",
			Op:   addon.OpAdd,
			Args: []any{100, 200},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertValue(t, o, 300)
			},
		},
		{
			Name: "add wrong count",
			Op:   addon.OpAdd,
			Args: []any{100},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertTypeError(t, o, errors.MsgWrongArgumentCount)
			},
		},
		{
			Name: "file list",
			Op:   addon.OpGetFileList,
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertSuccess(t, o)
				AssertRecordField(t, o, 1, "filePath", "/root/1.txt")
				AssertRecordField(t, o, 1, "fileSize", 100)
			},
		},
		{
			Name: "power10",
			Op:   addon.OpGetPower10,
			Args: []any{2},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertValue(t, o, 1024)
			},
		},
		{
			Name: "power10 negative",
			Op:   addon.OpGetPower10,
			Args: []any{-2},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertDomainError(t, o, errors.MsgNonPositiveN)
			},
		},
		{
			Name: "power20",
			Op:   addon.OpGetPower20,
			Args: []any{2},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertValue(t, o, 1048576)
			},
		},
		{
			Name: "power20 negative",
			Op:   addon.OpGetPower20,
			Args: []any{-2},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertDomainError(t, o, errors.MsgNonPositiveN)
			},
		},
		{
			Name: "power30",
			Op:   addon.OpGetPower30,
			Args: []any{2},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertValue(t, o, 1073741824)
			},
		},
		{
			Name: "power30 wraps",
			Op:   addon.OpGetPower30,
			Args: []any{4},
			Validate: func(t *testing.T, o binding.Outcome) {
				AssertValue(t, o, 0)
			},
		},
	})
}
