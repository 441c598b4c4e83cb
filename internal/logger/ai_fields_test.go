package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  prose  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "prose" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("document", "cv.pdf")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["document"] != "cv.pdf" {
		t.Fatalf("unexpected context: %v", entries[0].ContextMap())
	}

	fallback := WithFields(nil, zap.String("baz", "qux"))
	if fallback == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	fallback.Info("another log")
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "gemini-2.5-flash").Info("test log")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "gemini-2.5-flash" {
		t.Fatalf("unexpected model field: %q", ctx[FieldModel])
	}

	if WithCommonFields(nil, "", "") == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}

func TestWithRun(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithRun(zap.New(core), "run-1").Info("test log")

	if got := observed.All()[0].ContextMap()[FieldRunID]; got != "run-1" {
		t.Fatalf("expected run id, got %v", got)
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{true, false} {
		log, err := New(json, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("expected debug level to be enabled")
		}
	}
}
