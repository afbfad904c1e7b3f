package errors

import (
	"strings"
	"testing"
)

// captureHandler records reported errors for testing.
type captureHandler struct {
	errors []*Error
}

func (h *captureHandler) HandleError(err *Error) {
	h.errors = append(h.errors, err)
}

func TestErrorString(t *testing.T) {
	err := New("snapshot.InsertItemsBefore", KindNotFound, "anchor item %v not found", "x")
	got := err.Error()
	if !strings.Contains(got, "snapshot.InsertItemsBefore") {
		t.Errorf("error string %q should contain the operation", got)
	}
	if !strings.Contains(got, "not-found") {
		t.Errorf("error string %q should contain the kind", got)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindNotFound, "not-found"},
		{KindEmptyCollection, "empty-collection"},
		{KindDuplicate, "duplicate"},
		{KindInternal, "internal"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFatalReportsAndPanics(t *testing.T) {
	handler := &captureHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Fatalf to panic")
		}
		err, ok := r.(*Error)
		if !ok {
			t.Fatalf("panic value = %T, want *Error", r)
		}
		if err.Kind != KindDuplicate {
			t.Errorf("panic kind = %v, want %v", err.Kind, KindDuplicate)
		}
		if err.StackTrace == "" {
			t.Error("expected a captured stack trace")
		}
		if len(handler.errors) != 1 {
			t.Errorf("handler received %d errors, want 1", len(handler.errors))
		}
	}()

	Fatalf("snapshot.AppendSections", KindDuplicate, "section %v already present", "news")
}

func TestSetHandlerNilRestoresDefault(t *testing.T) {
	SetHandler(&captureHandler{})
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("DefaultHandler = %T, want *LogHandler", DefaultHandler)
	}
}
