package gramerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Message(t *testing.T) {
	testCases := []struct {
		name        string
		err         error
		expectMsg   string
		expectError string
		expectIs    error
	}{
		{
			name:        "parse error",
			err:         Parse(3, 7, "Missing arrow", ""),
			expectMsg:   "Line 3: Missing arrow",
			expectError: "line 3, col 7: missing arrow",
			expectIs:    ErrParse,
		},
		{
			name:        "formatted parse error",
			err:         Parsef(1, 1, "Unexpected %q", "x"),
			expectMsg:   `Line 1: Unexpected "x"`,
			expectError: `line 1, col 1: unexpected "x"`,
			expectIs:    ErrParse,
		},
		{
			name:        "wrapped parse error",
			err:         WrapParse(errors.New("bad byte"), 2, 4, "Could not read"),
			expectMsg:   "Line 2: Could not read",
			expectError: "line 2, col 4: could not read: bad byte",
			expectIs:    ErrParse,
		},
		{
			name:        "empty production",
			err:         EmptyProductionIn("remove left recursion", "S"),
			expectMsg:   "Input grammar has an empty production (S).",
			expectError: "remove left recursion: input grammar has an empty production for S",
			expectIs:    ErrPrecondition,
		},
		{
			name:        "cycle",
			err:         CycleIn("remove left recursion", []string{"S", "A", "S"}),
			expectMsg:   "Input grammar has a cycle:\nS --> A --> S",
			expectError: "remove left recursion: input grammar has a cycle: S --> A --> S",
			expectIs:    ErrPrecondition,
		},
		{
			name:        "other error",
			err:         errors.New("disk on fire"),
			expectMsg:   "disk on fire",
			expectError: "disk on fire",
		},
		{
			name:        "message found through wrapping",
			err:         fmt.Errorf("load: %w", Parse(5, 1, "Bad name", "")),
			expectMsg:   "Line 5: Bad name",
			expectError: "load: line 5, col 1: bad name",
			expectIs:    ErrParse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expectMsg, Message(tc.err))
			assert.Equal(tc.expectError, tc.err.Error())
			if tc.expectIs != nil {
				assert.ErrorIs(tc.err, tc.expectIs)
			}
		})
	}
}

func Test_CycleIn_CopiesPath(t *testing.T) {
	assert := assert.New(t)

	path := []string{"A", "B", "A"}
	err := CycleIn("op", path)
	path[0] = "Z"

	var preErr *PreconditionError
	if assert.ErrorAs(err, &preErr) {
		assert.Equal([]string{"A", "B", "A"}, preErr.Path)
		assert.Equal(Cycle, preErr.Kind)
	}
}
