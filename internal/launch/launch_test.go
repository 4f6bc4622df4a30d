package launch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"projector/internal/kvstore"
	"projector/internal/metadata"
	"projector/internal/wslpath"
)

type call struct {
	name string
	args []string
}

// fakeRunner records executed commands and serves canned results.
type fakeRunner struct {
	runErr    error
	output    []byte
	outputErr error
	calls     []call
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.runErr
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.output, f.outputErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLauncher(editor []string, run Runner, wslRun wslpath.Runner) (*Launcher, *metadata.Store) {
	logger := testLogger()
	kv := kvstore.NewMem()
	meta := metadata.NewStore(kv, logger)
	wsl := wslpath.NewResolver(wslRun, logger)
	return NewLauncher(editor, wsl, meta, run, logger), meta
}

type wslStatus struct {
	out []byte
	err error
}

func (w wslStatus) Output(context.Context, string, ...string) ([]byte, error) {
	return w.out, w.err
}

func TestOpen_BuildsArgvAndRecordsOpen(t *testing.T) {
	run := &fakeRunner{}
	l, meta := newLauncher([]string{"code", "-r"}, run, nil)

	if err := l.Open(context.Background(), "/home/me/proj"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(run.calls) != 1 {
		t.Fatalf("expected 1 command, got %d", len(run.calls))
	}
	got := run.calls[0]
	if got.name != "code" || len(got.args) != 2 || got.args[0] != "-r" || got.args[1] != "/home/me/proj" {
		t.Errorf("command = %s %v, want code [-r /home/me/proj]", got.name, got.args)
	}

	if meta.Get("/home/me/proj").LastOpened == 0 {
		t.Error("successful open should record lastOpened")
	}
}

func TestOpen_WSLPathTranslated(t *testing.T) {
	run := &fakeRunner{}
	status := wslStatus{out: []byte("Default Distribution: Ubuntu-22.04\n")}
	l, _ := newLauncher([]string{"code"}, run, status)

	path := `\\wsl.localhost\Ubuntu-22.04\home\me\proj`
	if err := l.Open(context.Background(), path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	got := run.calls[0]
	want := []string{"-n", "--remote=wsl+Ubuntu-22.04", "/home/me/proj"}
	if got.name != "code" || len(got.args) != len(want) {
		t.Fatalf("command = %s %v, want code %v", got.name, got.args, want)
	}
	for i := range want {
		if got.args[i] != want[i] {
			t.Errorf("arg[%d] = %q, want %q", i, got.args[i], want[i])
		}
	}
}

func TestOpen_NoDefaultDistro(t *testing.T) {
	run := &fakeRunner{}
	status := wslStatus{err: errors.New("wsl not installed")}
	l, meta := newLauncher([]string{"code"}, run, status)

	path := `\\wsl.localhost\Ubuntu\home\me\proj`
	err := l.Open(context.Background(), path)
	if !errors.Is(err, ErrNoDefaultDistro) {
		t.Fatalf("Open = %v, want ErrNoDefaultDistro", err)
	}
	if len(run.calls) != 0 {
		t.Error("editor must not launch without a resolved distro")
	}
	if meta.Get(path).LastOpened != 0 {
		t.Error("failed open must not record lastOpened")
	}
}

func TestOpen_LaunchFailureDoesNotRecord(t *testing.T) {
	run := &fakeRunner{runErr: errors.New("exit status 1")}
	l, meta := newLauncher([]string{"code"}, run, nil)

	if err := l.Open(context.Background(), "/p"); err == nil {
		t.Fatal("Open should surface the launch failure")
	}
	if meta.Get("/p").LastOpened != 0 {
		t.Error("failed open must not record lastOpened")
	}
}

func TestOpen_NoEditorConfigured(t *testing.T) {
	l, _ := newLauncher(nil, &fakeRunner{}, nil)
	if err := l.Open(context.Background(), "/p"); !errors.Is(err, ErrNoEditor) {
		t.Errorf("Open = %v, want ErrNoEditor", err)
	}
}
