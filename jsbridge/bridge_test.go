package jsbridge

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/application/config"
)

func newTestBridge(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	cfg := config.Default()
	cfg.StepDelayMS = 0
	mod, err := addon.New(addon.WithConfig(cfg), addon.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	b := New(mod, opts...)
	require.NoError(t, b.Install("sample"))
	return b
}

func runScript(t *testing.T, b *Bridge, src string) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.RunScript(ctx, "test.js", src)
}

func TestRunScript_Sample(t *testing.T) {
	src, err := os.ReadFile("testdata/sample.js")
	require.NoError(t, err)

	b := newTestBridge(t)
	assert.NoError(t, runScript(t, b, string(src)))
}

func TestRunScript_SampleWithStepDelay(t *testing.T) {
	src, err := os.ReadFile("testdata/sample.js")
	require.NoError(t, err)

	mod, err := addon.New(addon.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	b := New(mod)
	require.NoError(t, b.Install(""))

	assert.NoError(t, runScript(t, b, string(src)))
}

func TestExports(t *testing.T) {
	b := newTestBridge(t)

	keys := b.Exports().Keys()
	assert.Equal(t, []string{"Add", "GetFileList", "GetPower10", "GetPower20", "GetPower30"}, keys)

	v, err := b.Runtime().RunString(`typeof sample.GetPower20`)
	require.NoError(t, err)
	assert.Equal(t, "function", v.String())
}

func TestShapeErrorsAreThrown(t *testing.T) {
	b := newTestBridge(t)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"add arity", `sample.Add(100)`, "TypeError: Wrong number of arguments"},
		{"add kinds", `sample.Add(1, "2")`, "TypeError: Wrong arguments"},
		{"add bool", `sample.Add(1, true)`, "TypeError: Wrong arguments"},
		{"file list arity", `sample.GetFileList(1)`, "TypeError: Wrong number of arguments"},
		{"callback missing", `sample.GetPower10(2)`, "TypeError: Wrong number of arguments"},
		{"callback not a function", `sample.GetPower30(2, 3)`, "TypeError: Wrong arguments"},
		{"promise arity", `sample.GetPower20()`, "TypeError: Wrong number of arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := b.Runtime().RunString(`(function() {
				try { ` + tt.expr + `; return "no throw"; }
				catch (e) { return (e instanceof TypeError) + ":" + e.toString(); }
			})()`)
			require.NoError(t, err)
			assert.Equal(t, "true:"+tt.want, v.String())
		})
	}
	assert.Equal(t, 0, b.mod.Loop().Pending())
}

func TestSyncResults(t *testing.T) {
	b := newTestBridge(t)

	v, err := b.Runtime().RunString(`sample.Add(100, 200)`)
	require.NoError(t, err)
	assert.Equal(t, int64(300), v.Export())

	v, err = b.Runtime().RunString(`JSON.stringify(sample.GetFileList())`)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"filePath":"/root/0.txt","fileSize":0},{"filePath":"/root/1.txt","fileSize":100},{"filePath":"/root/2.txt","fileSize":200}]`,
		v.String())
}

func TestCallbacksDeliverExactlyOnce(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `
		var calls = [];
		for (var i = -2; i <= 2; i++) {
			sample.GetPower10(i, function(err, result) { calls.push(err ? err.toString() : result); });
			sample.GetPower30(i, function(err, result) { calls.push(err ? err.toString() : result); });
		}
		if (calls.length !== 0) throw new Error("delivered synchronously");
	`)
	require.NoError(t, err)

	v, err := b.Runtime().RunString(`calls`)
	require.NoError(t, err)
	calls, ok := v.Export().([]any)
	require.True(t, ok)
	assert.Len(t, calls, 10)

	var failures, ones int
	for _, c := range calls {
		switch c {
		case "Error: N must larger than 0":
			failures++
		case int64(1):
			ones++
		}
	}
	assert.Equal(t, 6, failures)
	assert.Equal(t, 2, ones)
	assert.Contains(t, calls, int64(1024))
	assert.Contains(t, calls, int64(1073741824))
}

func TestCallbackFailurePassesNullResult(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `
		var seen = [];
		function record(name) {
			return function(err, result) {
				seen.push(name + ":" + (err instanceof Error) + ":" + (result === null) + ":" + typeof result);
			};
		}
		sample.GetPower10(-2, record("p10"));
		sample.GetPower30(-2, record("p30"));
	`)
	require.NoError(t, err)

	v, err := b.Runtime().RunString(`seen.sort().join("|")`)
	require.NoError(t, err)
	assert.Equal(t, "p10:true:true:object|p30:true:true:object", v.String())
}

func TestCallbackSuccessPassesNullError(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `
		var seen = [];
		sample.GetPower10(2, function(err, result) { seen.push((err === null) + ":" + result); });
	`)
	require.NoError(t, err)

	v, err := b.Runtime().RunString(`seen.join("|")`)
	require.NoError(t, err)
	assert.Equal(t, "true:1024", v.String())
}

func TestLargePowersWrapLikeInt32(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `
		var seen = [];
		sample.GetPower10(50, function(err, result) { seen.push("p10:" + err + ":" + result); });
		sample.GetPower30(4, function(err, result) { seen.push("p30:" + err + ":" + result); });
		sample.GetPower20(7).then(
			function(v) { seen.push("p20:then:" + v); },
			function(e) { seen.push("p20:catch:" + e); });
	`)
	require.NoError(t, err)

	v, err := b.Runtime().RunString(`seen.sort().join("|")`)
	require.NoError(t, err)
	assert.Equal(t, "p10:null:-1957116928|p20:then:-1199696159|p30:null:0", v.String())
}

func TestPromiseSettlesOneSide(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `
		var log = [];
		sample.GetPower20(2).then(function(v) { log.push("then:" + v); }, function(e) { log.push("catch:" + e); });
		sample.GetPower20(-2).then(function(v) { log.push("then:" + v); }, function(e) { log.push("catch:" + e); });
	`)
	require.NoError(t, err)

	v, err := b.Runtime().RunString(`log.sort().join("|")`)
	require.NoError(t, err)
	assert.Equal(t, "catch:Error: N must larger than 0|then:1048576", v.String())
}

func TestPromiseAwait(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `
		var out;
		(async function() {
			out = await sample.GetPower20(3);
		})();
	`)
	require.NoError(t, err)

	v, err := b.Runtime().RunString(`out`)
	require.NoError(t, err)
	assert.Equal(t, int64(3486784401), v.Export())
}

func TestUnhandledRejection(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `sample.GetPower20(0);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unhandled promise rejection: Error: N must larger than 0")

	// The next run starts clean.
	assert.NoError(t, runScript(t, b, `sample.GetPower20(1).then(function() {});`))
}

func TestCallbackExceptionFailsRun(t *testing.T) {
	b := newTestBridge(t)

	err := runScript(t, b, `sample.GetPower10(2, function() { throw new Error("boom"); });`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestAssert(t *testing.T) {
	b := newTestBridge(t)

	assert.NoError(t, runScript(t, b, `
		const assert = require("assert");
		assert(true);
		assert.ok(1);
		assert.equal("1", 1);
		assert.strictEqual(2, 2);
	`))

	tests := []struct {
		src  string
		want string
	}{
		{`require("assert")(1 == 2, "nope")`, "AssertionError: nope"},
		{`require("assert")(0)`, "AssertionError: The expression evaluated to a falsy value"},
		{`require("assert").strictEqual("1", 1)`, "AssertionError: Expected values to be strictly equal: 1 !== 1"},
	}
	for _, tt := range tests {
		err := runScript(t, b, tt.src)
		require.Error(t, err, tt.src)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func TestRequire(t *testing.T) {
	b := newTestBridge(t)

	v, err := b.Runtime().RunString(`require("bindings")("addon.node") === sample`)
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())

	err = runScript(t, b, `require("fs")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot find module 'fs'")
}

func TestConsole(t *testing.T) {
	var stdout, stderr bytes.Buffer
	b := newTestBridge(t, WithStdout(&stdout), WithStderr(&stderr))

	require.NoError(t, runScript(t, b, `console.log("sum", sample.Add(1, 2)); console.error("oops");`))
	assert.Equal(t, "sum 3\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestWithRuntime(t *testing.T) {
	rt := goja.New()
	b := newTestBridge(t, WithRuntime(rt))
	assert.Same(t, rt, b.Runtime())
}

func TestRunScript_ContextEnds(t *testing.T) {
	b := newTestBridge(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := b.RunScript(ctx, "spin.js", `for (;;) {}`)
	require.Error(t, err)

	var interrupted *goja.InterruptedError
	assert.ErrorAs(t, err, &interrupted)
}
