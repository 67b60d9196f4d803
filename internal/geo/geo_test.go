package geo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAcquireAppliesTimeout(t *testing.T) {
	slow := SourceFunc(func(ctx context.Context, _ Options) (Position, error) {
		select {
		case <-time.After(time.Second):
			return Position{Lat: 1}, nil
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	})

	_, err := Acquire(context.Background(), slow, Options{Timeout: 20 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout")
	}
	if Classify(err) != CodeTimeout {
		t.Fatalf("classified = %v, want timeout", Classify(err))
	}
}

func TestAcquirePreservesTypedErrors(t *testing.T) {
	denied := SourceFunc(func(context.Context, Options) (Position, error) {
		return Position{}, &Error{Code: CodePermissionDenied}
	})

	_, err := Acquire(context.Background(), denied, Options{Timeout: time.Second})
	if Classify(err) != CodePermissionDenied {
		t.Fatalf("classified = %v, want permission denied", Classify(err))
	}
}

func TestAcquireWrapsUnknownErrors(t *testing.T) {
	flaky := SourceFunc(func(context.Context, Options) (Position, error) {
		return Position{}, errors.New("gps glitch")
	})

	_, err := Acquire(context.Background(), flaky, Options{})
	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if ge.Code != CodeUnavailable {
		t.Fatalf("code = %v, want unavailable", ge.Code)
	}
}

func TestStaticSource(t *testing.T) {
	pos, err := Acquire(context.Background(), Static{Pos: Position{Lat: 55.75, Lon: 37.61}}, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if pos.Lat != 55.75 || pos.Lon != 37.61 {
		t.Fatalf("pos = %+v", pos)
	}
}
