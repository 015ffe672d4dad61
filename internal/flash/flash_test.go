// internal/flash/flash_test.go
package flash

import (
	"context"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestFlash_ArgvRelease(t *testing.T) {
	var gotDir, gotName string
	var gotArgs []string

	f := New("STM32F411RE", "flash", "../arm_cm4")
	f.run = func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		gotDir, gotName, gotArgs = dir, name, args
		return nil, nil
	}

	if err := f.Flash(context.Background(), "latency-isr-bypass", true); err != nil {
		t.Fatalf("Flash() err=%v", err)
	}

	if gotDir != "../arm_cm4" || gotName != "cargo" {
		t.Fatalf("ran %q in %q, want cargo in ../arm_cm4", gotName, gotDir)
	}
	want := []string{"flash", "--chip=STM32F411RE", "--", "--test=latency-isr-bypass", "--release"}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Fatalf("args:\n got %v\nwant %v", gotArgs, want)
	}
}

func TestFlash_ArgvDebug(t *testing.T) {
	var gotArgs []string

	f := New("STM32F411RE", "flash", ".")
	f.run = func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, nil
	}

	if err := f.Flash(context.Background(), "latency-isr-kernel", false); err != nil {
		t.Fatalf("Flash() err=%v", err)
	}

	last := gotArgs[len(gotArgs)-1]
	if last != "-q" {
		t.Fatalf("debug build trailing arg = %q, want -q", last)
	}
}

func TestFlash_NonZeroExitCarriesStderr(t *testing.T) {
	f := New("STM32F411RE", "flash", ".")
	f.run = func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		return []byte("probe not found"), errors.New("exit status 1")
	}

	err := f.Flash(context.Background(), "latency-isr-bypass", true)
	if err == nil {
		t.Fatal("Flash() expected error")
	}

	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("Flash() err=%T, want *flash.Error", err)
	}
	if ferr.Stderr != "probe not found" {
		t.Fatalf("Stderr = %q, want captured diagnostic", ferr.Stderr)
	}
	if ferr.Target != "latency-isr-bypass" {
		t.Fatalf("Target = %q", ferr.Target)
	}
}
