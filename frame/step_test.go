package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSteps(t *testing.T) {
	counter := testNewCounter(t, 20, testLinearSampler(t))

	tests := []struct {
		name string
		step TimeStep
		in   time.Duration
		want time.Duration
	}{
		{name: "variable", step: VariableStep{}, in: time.Millisecond * 33, want: time.Millisecond * 33},
		{name: "variable zero", step: VariableStep{}, in: 0, want: 0},
		{name: "constant", step: NewConstantStep(time.Millisecond * 10), in: time.Second, want: time.Millisecond * 10},
		{name: "null", step: NullStep(), in: time.Second, want: 0},
		{name: "fixed", step: NewFixedStep(counter), in: time.Millisecond * 3, want: time.Millisecond * 50},
		{name: "func", step: TimeStepFunc(func(d time.Duration) time.Duration { return d / 2 }), in: time.Second, want: time.Millisecond * 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.step.ComputeGameTime(tt.in))
		})
	}
}

func TestFixedStep_FollowsTargetRate(t *testing.T) {
	counter := testNewCounter(t, 20, testLinearSampler(t))
	step := NewFixedStep(counter)

	assert.Equal(t, time.Millisecond*50, step.ComputeGameTime(0))

	assert.NoError(t, counter.SetTargetFrameRate(100))
	assert.Equal(t, time.Millisecond*10, step.ComputeGameTime(0))
}

func TestConstantStep_Step(t *testing.T) {
	assert.Equal(t, time.Second, NewConstantStep(time.Second).Step())
	assert.Zero(t, NullStep().Step())
}
