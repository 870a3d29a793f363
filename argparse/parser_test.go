package argparse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome struct {
	ok      bool
	err     error
	result  Result
	failure error
	tokens  []string
	calls   int
}

func quietOptions() Options {
	return Options{
		Name:   "test",
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}
}

func run(t *testing.T, p *Parser, tokens ...string) outcome {
	t.Helper()

	var o outcome
	o.ok, o.err = p.Parse(context.Background(), tokens,
		func(_ context.Context, r Result) error {
			o.calls++
			o.result = r
			return nil
		},
		func(err error, tokens []string) {
			o.calls++
			o.failure = err
			o.tokens = tokens
		},
	)

	require.Equal(t, 1, o.calls, "exactly one callback must run")
	return o
}

func sampleParser(opts Options) *Parser {
	return New(opts,
		Arg(nil, "name"),
		Arg(&ArgOptions{Type: Number}, "count", "n"),
		Arg(&ArgOptions{Type: Boolean}, "verbose", "v"),
		Arg(&ArgOptions{IsArray: true}, "tag", "t"),
	)
}

func TestParse_Defaults(t *testing.T) {
	o := run(t, sampleParser(quietOptions()))

	require.True(t, o.ok)
	require.NoError(t, o.err)

	want := Result{
		"name":    nil,
		"count":   nil,
		"verbose": false,
		"tag":     []string{},
	}
	if diff := cmp.Diff(want, o.result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ArrayCollectsInOrder(t *testing.T) {
	p := New(quietOptions(),
		Arg(&ArgOptions{IsArray: true}, "tag", "t"),
		Arg(&ArgOptions{IsArray: true, Type: Number}, "num"),
		Arg(&ArgOptions{IsArray: true, Type: Boolean}, "flag"),
	)

	o := run(t, p, "--tag", "a", "-t", "b", "--tag=c", "--num", "1", "--num=2.5", "--flag", "--flag=false")
	require.True(t, o.ok)

	assert.Equal(t, []string{"a", "b", "c"}, o.result.Strings("tag"))
	assert.Equal(t, []float64{1, 2.5}, o.result.Numbers("num"))
	assert.Equal(t, []bool{true, false}, o.result.Bools("flag"))
}

func TestParse_Idempotent(t *testing.T) {
	p := New(quietOptions(), Arg(&ArgOptions{Type: Number}, "x"))

	first := run(t, p, "--x", "5")
	second := run(t, p, "--x", "5")

	require.True(t, first.ok)
	require.True(t, second.ok)
	assert.Empty(t, cmp.Diff(first.result, second.result))

	x, ok := first.result.Number("x")
	require.True(t, ok)
	assert.Equal(t, 5.0, x)
}

func TestParse_CommandTakesPrecedence(t *testing.T) {
	var argv []string
	calls := 0

	opts := quietOptions()
	opts.Commands = []*Command{
		NewCommand("build", func(_ context.Context, e Event) error {
			calls++
			argv = e.Argv
			return nil
		}, "b"),
	}
	p := New(opts, Arg(&ArgOptions{Type: Number}, "x"))

	ok, err := p.Parse(context.Background(), []string{"build", "--x", "5"},
		func(context.Context, Result) error {
			t.Fatal("success callback must not run on dispatch")
			return nil
		},
		func(error, []string) {
			t.Fatal("error callback must not run on dispatch")
		},
	)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"--x", "5"}, argv)

	ok, err = p.Parse(context.Background(), []string{"b"}, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, calls)
	assert.Empty(t, argv)
}

func TestParse_OnlyFirstTokenDispatches(t *testing.T) {
	opts := quietOptions()
	opts.Commands = []*Command{
		NewCommand("build", func(context.Context, Event) error {
			t.Fatal("command must not be dispatched")
			return nil
		}),
	}
	p := New(opts, Arg(nil, "first"), Arg(nil, "second"))

	o := run(t, p, "a", "build")
	require.True(t, o.ok)
	assert.Equal(t, "a", o.result["first"])
	assert.Equal(t, "build", o.result["second"])
}

func TestParse_BooleanForms(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{name: "inline true", tokens: []string{"--flag=true"}, want: true},
		{name: "inline upper", tokens: []string{"--flag=TRUE"}, want: true},
		{name: "inline one", tokens: []string{"--flag=1"}, want: true},
		{name: "inline false", tokens: []string{"--flag=false"}, want: false},
		{name: "separate true", tokens: []string{"--flag", "true"}, want: true},
		{name: "separate zero", tokens: []string{"--flag", "0"}, want: false},
		{name: "bare at end", tokens: []string{"--flag"}, want: true},
		{name: "bare before option", tokens: []string{"--flag", "--other"}, want: true},
		{name: "alias", tokens: []string{"-f"}, want: true},
		// anything that is not "true" or "1" is false, never an error
		{name: "not boolean like", tokens: []string{"--flag", "somethingNotBooleanLike"}, want: false},
		{name: "empty inline", tokens: []string{"--flag="}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(quietOptions(),
				Arg(&ArgOptions{Type: Boolean}, "flag", "f"),
				Arg(&ArgOptions{Type: Boolean}, "other"),
			)

			o := run(t, p, tt.tokens...)
			require.True(t, o.ok, "unexpected failure: %v", o.failure)
			assert.Equal(t, tt.want, o.result.Bool("flag"))
		})
	}
}

func TestParse_BooleanBeforeOptionLeavesItUnconsumed(t *testing.T) {
	p := New(quietOptions(),
		Arg(&ArgOptions{Type: Boolean}, "flag"),
		Arg(&ArgOptions{Type: Boolean}, "other"),
	)

	o := run(t, p, "--flag", "--other")
	require.True(t, o.ok)
	assert.True(t, o.result.Bool("flag"))
	assert.True(t, o.result.Bool("other"))
}

func TestParse_MissingRequired(t *testing.T) {
	p := New(quietOptions(), Arg(&ArgOptions{Required: true}, "x"))

	o := run(t, p)
	require.NoError(t, o.err)
	assert.False(t, o.ok)
	assert.Nil(t, o.result)

	assert.Equal(t, MissingRequired, KindOf(o.failure))
	assert.ErrorIs(t, o.failure, ErrMissingRequired)
	assert.EqualError(t, o.failure, "missing required argument: x")
}

func TestParse_RequiredArrayNeedsOneValue(t *testing.T) {
	p := New(quietOptions(), Arg(&ArgOptions{Required: true, IsArray: true}, "x"))

	o := run(t, p)
	assert.Equal(t, MissingRequired, KindOf(o.failure))

	o = run(t, p, "--x", "a")
	require.True(t, o.ok)
	assert.Equal(t, []string{"a"}, o.result.Strings("x"))
}

func TestParse_UnknownOption(t *testing.T) {
	p := sampleParser(quietOptions())

	tests := []struct {
		tokens []string
		key    string
	}{
		{tokens: []string{"--nope"}, key: "--nope"},
		{tokens: []string{"--nope=1"}, key: "--nope"},
		// aliases take one dash, names two
		{tokens: []string{"--n", "3"}, key: "--n"},
		{tokens: []string{"-count", "3"}, key: "-count"},
		{tokens: []string{"-5"}, key: "-5"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.tokens), func(t *testing.T) {
			o := run(t, p, tt.tokens...)
			assert.False(t, o.ok)
			assert.ErrorIs(t, o.failure, ErrUnknownOption)

			var pe *ParseError
			require.ErrorAs(t, o.failure, &pe)
			assert.Equal(t, UnknownOption, pe.Kind)
			assert.Equal(t, tt.key, pe.Key)
			assert.Equal(t, tt.tokens, o.tokens)
		})
	}
}

func TestParse_ExcessPositionalsDropped(t *testing.T) {
	p := New(quietOptions(), Arg(nil, "x"))

	o := run(t, p, "a", "b")
	require.True(t, o.ok)
	assert.Empty(t, cmp.Diff(Result{"x": "a"}, o.result))
}

func TestParse_PositionalsBindInOrder(t *testing.T) {
	p := New(quietOptions(),
		Arg(&ArgOptions{IsArray: true}, "tags"),
		Arg(&ArgOptions{Type: Number}, "count"),
		Arg(&ArgOptions{Type: Boolean}, "force"),
	)

	o := run(t, p, "a", "7", "yes")
	require.True(t, o.ok)

	want := Result{
		"tags":  []string{"a"},
		"count": 7.0,
		"force": false,
	}
	assert.Empty(t, cmp.Diff(want, o.result))
}

func TestParse_InvalidNumber(t *testing.T) {
	p := New(quietOptions(), Arg(&ArgOptions{Type: Number}, "n"))

	for _, tokens := range [][]string{{"abc"}, {"--n", "abc"}, {"--n=abc"}} {
		o := run(t, p, tokens...)
		assert.False(t, o.ok)
		assert.Equal(t, InvalidValue, KindOf(o.failure))
		assert.EqualError(t, o.failure, "invalid number value: abc for n")
	}
}

func TestParse_MissingValue(t *testing.T) {
	p := sampleParser(quietOptions())

	o := run(t, p, "--name")
	assert.False(t, o.ok)
	assert.ErrorIs(t, o.failure, ErrMissingValue)
	assert.EqualError(t, o.failure, "missing value for option: --name")

	o = run(t, p, "-n")
	assert.Equal(t, MissingValue, KindOf(o.failure))
}

func TestParse_ValueTokenMayLookLikeOption(t *testing.T) {
	p := sampleParser(quietOptions())

	o := run(t, p, "--name", "--verbose", "--count", "-5")
	require.True(t, o.ok)
	assert.Equal(t, "--verbose", o.result["name"])
	assert.Equal(t, -5.0, o.result["count"])
	assert.False(t, o.result.Bool("verbose"))
}

func TestParse_UnexpectedPositional(t *testing.T) {
	p := sampleParser(quietOptions())

	o := run(t, p, "--name", "x", "y")
	assert.False(t, o.ok)
	assert.Equal(t, UnexpectedPositional, KindOf(o.failure))
	assert.EqualError(t, o.failure, "unexpected positional argument: y after named arguments")
}

func TestParse_PositionalThenNamed(t *testing.T) {
	p := sampleParser(quietOptions())

	o := run(t, p, "alice", "-n", "3", "-v", "-t", "x")
	require.True(t, o.ok)

	want := Result{
		"name":    "alice",
		"count":   3.0,
		"verbose": true,
		"tag":     []string{"x"},
	}
	assert.Empty(t, cmp.Diff(want, o.result))
}

func TestParse_InlineValueKeepsEquals(t *testing.T) {
	p := sampleParser(quietOptions())

	o := run(t, p, "--name=a=b")
	require.True(t, o.ok)
	assert.Equal(t, "a=b", o.result["name"])
}

func TestParse_EmptyTokensFiltered(t *testing.T) {
	p := New(quietOptions(), Arg(nil, "x"), Arg(&ArgOptions{Required: true}, "y"))

	o := run(t, p, "", "a", "", "b")
	require.True(t, o.ok)
	assert.Equal(t, "a", o.result["x"])
	assert.Equal(t, "b", o.result["y"])

	o = run(t, p, "", "a", "")
	assert.Equal(t, MissingRequired, KindOf(o.failure))
	// the error callback sees the tokens as they were passed in
	assert.Equal(t, []string{"", "a", ""}, o.tokens)
}

func TestParse_ActionErrorPropagates(t *testing.T) {
	boom := errors.New("boom")

	opts := quietOptions()
	opts.Commands = []*Command{
		NewCommand("fail", func(context.Context, Event) error {
			return boom
		}),
	}
	p := New(opts)

	ok, err := p.Parse(context.Background(), []string{"fail"}, nil, func(error, []string) {
		t.Fatal("error callback must not see action errors")
	})
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestParse_ActionPanicPropagates(t *testing.T) {
	opts := quietOptions()
	opts.Commands = []*Command{
		NewCommand("panic", func(context.Context, Event) error {
			panic("action failed")
		}),
	}
	p := New(opts)

	assert.PanicsWithValue(t, "action failed", func() {
		_, _ = p.Parse(context.Background(), []string{"panic"}, nil, nil)
	})
}

func TestParse_SuccessCallbackError(t *testing.T) {
	boom := errors.New("boom")
	p := sampleParser(quietOptions())

	ok, err := p.Parse(context.Background(), nil,
		func(context.Context, Result) error {
			return boom
		},
		func(error, []string) {
			t.Fatal("error callback must not run after success")
		},
	)

	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestParse_DefaultCallbacks(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	p := New(Options{Stdout: stdout, Stderr: stderr},
		Arg(nil, "name"),
		Arg(&ArgOptions{Type: Boolean}, "verbose"),
		Arg(&ArgOptions{Type: Number, Required: true}, "count"),
	)

	ok, err := p.Parse(context.Background(), []string{"--name", "x", "--count", "2"}, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "count: 2\nname: x\nverbose: false\n", stdout.String())
	assert.Empty(t, stderr.String())

	stdout.Reset()
	ok, err = p.Parse(context.Background(), []string{"--name", "x"}, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "missing required argument: count")
}

func TestParse_ConfiguredCallbacks(t *testing.T) {
	var got Result
	var failure error

	opts := quietOptions()
	opts.OnSuccess = func(_ context.Context, r Result) error {
		got = r
		return nil
	}
	opts.OnError = func(err error, _ []string) {
		failure = err
	}
	p := sampleParser(opts)

	ok, err := p.Parse(context.Background(), []string{"bob"}, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bob", got["name"])

	ok, _ = p.Parse(context.Background(), []string{"--bad"}, nil, nil)
	assert.False(t, ok)
	assert.Equal(t, UnknownOption, KindOf(failure))
}

func TestParse_Concurrent(t *testing.T) {
	p := sampleParser(quietOptions())

	var wg sync.WaitGroup
	results := make([]Result, 50)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := p.Parse(context.Background(), []string{fmt.Sprint("user", i), "-t", fmt.Sprint(i)},
				func(_ context.Context, r Result) error {
					results[i] = r
					return nil
				}, nil)
			if !ok || err != nil {
				t.Errorf("parse %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, fmt.Sprint("user", i), r["name"])
		assert.Equal(t, []string{fmt.Sprint(i)}, r.Strings("tag"))
	}
}

func TestParseAsync(t *testing.T) {
	p := sampleParser(quietOptions())

	release := make(chan struct{})
	var got Result
	fut := p.ParseAsync(context.Background(), []string{"--count", "4"}, func(_ context.Context, r Result) error {
		<-release
		got = r
		return nil
	}, nil)

	select {
	case <-fut.Done():
		t.Fatal("parse completed before its success callback")
	default:
	}

	close(release)
	ok, err := fut.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.0, got["count"])

	ok, err = p.ParseAsync(context.Background(), []string{"--nope"}, nil, nil).Get()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseAsync_PanicReachesCaller(t *testing.T) {
	opts := quietOptions()
	opts.Commands = []*Command{
		NewCommand("panic", func(context.Context, Event) error {
			panic("action failed")
		}),
	}
	p := New(opts)

	fut := p.ParseAsync(context.Background(), []string{"panic"}, nil, nil)
	<-fut.Done()
	time.Sleep(50 * time.Millisecond)

	assert.PanicsWithValue(t, "action failed", func() {
		_, _ = fut.Get()
	})
	assert.PanicsWithValue(t, "action failed", func() {
		_ = fut.GetOrPanic()
	})
}

func TestNew_Collisions(t *testing.T) {
	assert.PanicsWithValue(t, "argument name already exists", func() {
		New(quietOptions(), Arg(nil, "name"), Arg(nil, "name"))
	})
	assert.PanicsWithValue(t, "argument n already exists", func() {
		New(quietOptions(), Arg(nil, "name", "n"), Arg(nil, "number", "n"))
	})
	assert.PanicsWithValue(t, "argument x already exists", func() {
		New(quietOptions(), Arg(nil, "x"), Arg(nil, "other", "x"))
	})

	opts := quietOptions()
	noop := func(context.Context, Event) error { return nil }
	opts.Commands = []*Command{NewCommand("a", noop, "b"), NewCommand("b", noop)}
	assert.PanicsWithValue(t, "command b already exists", func() {
		New(opts)
	})
}

func TestEvent_IsACopy(t *testing.T) {
	opts := quietOptions()
	opts.Examples = []string{"--name x"}
	opts.Commands = []*Command{
		NewCommand("mutate", func(_ context.Context, e Event) error {
			e.Args[0].Aliases[0] = "changed"
			e.Args[0].Name = "changed"
			e.Meta.Examples[0] = "changed"
			return nil
		}),
	}
	p := New(opts, Arg(nil, "name", "n"))

	ok, err := p.Parse(context.Background(), []string{"mutate"}, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "name", p.Args()[0].Name)
	assert.Equal(t, []string{"n"}, p.Args()[0].Aliases)
	assert.Equal(t, []string{"--name x"}, p.Meta().Examples)

	o := run(t, p, "-n", "x")
	require.True(t, o.ok)
	assert.Equal(t, "x", o.result["name"])
}

func TestDeepCopy_PanicsOnFailure(t *testing.T) {
	var m Meta
	deepCopy(&m, &Meta{Name: "tool", Examples: []string{"-h"}})
	assert.Equal(t, Meta{Name: "tool", Examples: []string{"-h"}}, m)

	assert.Panics(t, func() {
		deepCopy(Meta{}, &Meta{Name: "tool"})
	})
}
