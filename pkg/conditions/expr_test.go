package conditions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/conditions"
)

func TestCondition_ReadsBlackboard(t *testing.T) {
	bb := blackboard.New()
	require.NoError(t, blackboard.Set(bb, "hp", 30))
	require.NoError(t, blackboard.Set(bb, "alarm", false))
	require.NoError(t, blackboard.Set(bb, "speed", 2.5))
	require.NoError(t, blackboard.Set(bb, "mode", "patrol"))

	tests := []struct {
		source string
		want   bool
	}{
		{"hp < 50", true},
		{"hp < 50 && !alarm", true},
		{"alarm", false},
		{"speed > 1.5", true},
		{`mode == "patrol"`, true},
		{`mode == "idle" || hp >= 100`, false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			c, err := conditions.Compile(tt.source, bb)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Match())
			assert.NoError(t, c.LastError())
		})
	}
}

func TestCondition_SeesLaterWrites(t *testing.T) {
	bb := blackboard.New()
	hp, err := blackboard.GetOrCreate[int](bb, "hp")
	require.NoError(t, err)

	c, err := conditions.Compile("hp > 10", bb)
	require.NoError(t, err)

	assert.False(t, c.Match())
	hp.Set(11)
	assert.True(t, c.Match())
}

func TestCondition_Errors(t *testing.T) {
	bb := blackboard.New()

	_, err := conditions.Compile("", bb)
	assert.ErrorIs(t, err, conditions.ErrEmptyExpression)

	_, err = conditions.Compile("hp <", bb)
	assert.Error(t, err, "syntax errors are reported at compile time")

	c, err := conditions.Compile("missing > 3", bb)
	require.NoError(t, err)
	assert.False(t, c.Match())
	assert.Error(t, c.LastError(), "comparing nil with an int must be reported")
}
