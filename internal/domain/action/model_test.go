package action

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		verb    Verb
		wantErr bool
	}{
		{"workout create", KindWorkout, VerbCreate, false},
		{"meal upload", KindMeal, VerbUpload, false},
		{"task complete", KindTask, VerbComplete, false},
		{"goal update", KindGoal, VerbUpdate, false},
		{"goal complete", KindGoal, VerbComplete, false},
		{"message send", KindMessage, VerbSend, false},
		{"unknown kind", Kind("note"), VerbCreate, true},
		{"unknown verb for kind", KindTask, VerbSend, true},
		{"empty pair", Kind(""), Verb(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.kind, tt.verb)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownAction))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	data := json.RawMessage(`{"taskId":"abc"}`)
	q := New(KindTask, VerbComplete, data)

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, KindTask, q.Kind)
	assert.Equal(t, VerbComplete, q.Verb)
	assert.JSONEq(t, `{"taskId":"abc"}`, string(q.Data))
	assert.False(t, q.Timestamp.IsZero())
	assert.Equal(t, 0, q.RetryCount)

	other := New(KindTask, VerbComplete, data)
	assert.NotEqual(t, q.ID, other.ID)
}

func TestWithRetryDoesNotMutateOriginal(t *testing.T) {
	q := New(KindWorkout, VerbCreate, nil)

	next := q.WithRetry()
	assert.Equal(t, 1, next.RetryCount)
	assert.Equal(t, 0, q.RetryCount)
	assert.Equal(t, q.ID, next.ID)

	third := next.WithRetry().WithRetry()
	assert.Equal(t, 3, third.RetryCount)
	assert.True(t, third.Exhausted())
	assert.False(t, next.Exhausted())
}

func TestUnknownActionError(t *testing.T) {
	err := Validate(Kind("habit"), Verb("track"))
	require.Error(t, err)

	var uerr *UnknownActionError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, Kind("habit"), uerr.Kind)
	assert.Contains(t, err.Error(), "habit/track")
}
