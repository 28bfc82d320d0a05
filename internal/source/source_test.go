package source

import (
	"errors"
	"testing"

	"github.com/khoward/eventpipe/internal/config"
)

func asFetchError(err error, target **FetchError) bool {
	return errors.As(err, target)
}

func TestRegistryUnknownType(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.New(config.Source{Name: "mystery", Type: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown source type")
	}

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if ce.Source != "mystery" {
		t.Errorf("expected source name in error, got %q", ce.Source)
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := DefaultRegistry()

	src, err := r.New(config.Source{
		Name: "feed",
		Type: "ical",
		ICal: config.ICal{URL: "https://example.com/calendar.ics"},
	})
	if err != nil {
		t.Fatalf("expected ical factory to succeed: %v", err)
	}
	if src.Name() != "feed" {
		t.Errorf("expected source name 'feed', got %q", src.Name())
	}

	if _, ok := src.(*ICal); !ok {
		t.Errorf("expected *ICal, got %T", src)
	}
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := NewRegistry()
	r.Register("ical", NewICal)
	r.Register("ical", func(cfg config.Source) (Source, error) {
		return nil, &ConfigError{Source: cfg.Name, Reason: "replaced"}
	})

	_, err := r.New(config.Source{Name: "x", Type: "ical"})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Reason != "replaced" {
		t.Errorf("expected replacement factory to win, got %v", err)
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &FetchError{Source: "page", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("expected FetchError to unwrap to inner error")
	}
	if err.Error() == "" {
		t.Error("expected non-empty error string")
	}
}
