package errs

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError(InvalidBound, "min_greenyellow", "min %v exceeds max %v", 41, 40)
	msg := err.Error()
	for _, want := range []string{"invalid bound", "min_greenyellow", "min 41 exceeds max 40"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}

	// without a field the message omits the field separator
	err = NewValidationError(IncompleteInput, "", "no signal groups")
	if strings.Contains(err.Error(), ": :") {
		t.Errorf("empty field rendered into message: %q", err.Error())
	}
}

func TestKindStrings(t *testing.T) {
	kinds := map[string]string{
		InvalidBound.String():      "invalid bound",
		NegativeValue.String():     "negative value",
		DuplicateID.String():       "duplicate id",
		DanglingReference.String(): "dangling reference",
		IncompleteInput.String():   "incomplete input",
		MissingField.String():      "missing field",
		WrongType.String():         "wrong type",
		InvalidValue.String():      "invalid value",
	}
	for got, want := range kinds {
		if got != want {
			t.Errorf("kind string = %q, want %q", got, want)
		}
	}
}

func TestErrorsAsDistinguishesTypes(t *testing.T) {
	var err error = NewDeserializationError(MissingField, "capacity", "required field is absent")

	var derr *DeserializationError
	if !errors.As(err, &derr) {
		t.Fatal("DeserializationError not matched")
	}
	if derr.Field != "capacity" || derr.Kind != MissingField {
		t.Errorf("unexpected error content: %+v", derr)
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Error("DeserializationError matched as ValidationError")
	}
}

func TestRemoteErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&AuthenticationError{StatusCode: 402, Message: "insufficient credits"}, "402"},
		{&AuthenticationError{Message: "no key"}, "no key"},
		{&RemoteRequestError{StatusCode: 400, Message: "bad intersection"}, "bad intersection"},
		{&RemoteServiceError{StatusCode: 500}, "500"},
		{&TimeoutError{Operation: "get_optimized_fts", Message: "no response"}, "get_optimized_fts"},
		{NewSafetyViolation("red time of sg '%s' too short", "sg1"), "sg1"},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.err.Error(), tt.want) {
			t.Errorf("message %q does not contain %q", tt.err.Error(), tt.want)
		}
	}
}
