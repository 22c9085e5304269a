package core

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultOptionsValid(t *testing.T) {
	o := DefaultOptions()
	if err := o.Validate(); err != nil {
		t.Fatalf("DefaultOptions().Validate() = %v", err)
	}
	if o.NumGoals() != 2 || o.NumResources() != 6 {
		t.Errorf("NumGoals()=%d NumResources()=%d, expected 2 and 6", o.NumGoals(), o.NumResources())
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
		substr string
	}{
		{"small world", func(o *Options) { o.WorldDim = 3 }, "world_dim"},
		{"unknown locator", func(o *Options) { o.Locator = 7 }, "init_locator_type"},
		{"unbalanced goals", func(o *Options) { o.NumGoalsRed = 2 }, "num_goals_red"},
		{"unbalanced resources", func(o *Options) { o.NumResourcesGreen = 3 }, "num_resources_red"},
		{"odd fuel", func(o *Options) { o.NumFuel = 3 }, "num_fuel"},
		{"odd obstacles", func(o *Options) { o.NumObstacles = 1 }, "num_obstacles"},
		{"negative count", func(o *Options) { o.NumFuel = -2 }, "num_fuel is negative"},
		{"in_line without goals", func(o *Options) {
			o.Locator = LocatorInLine
			o.NumGoalsGreen, o.NumGoalsRed = 0, 0
		}, "in_line"},
		{"zero goal max", func(o *Options) { o.GoalMax = 0 }, "goal_max"},
		{"goal init above max", func(o *Options) { o.GoalInit = 200 }, "goal_init"},
		{"fuel overfill", func(o *Options) { o.AgentInitFuel = 150 }, "agent_init_fuel"},
		{"cargo overfill", func(o *Options) { o.AgentInitResourcesGreen = 80; o.AgentInitResourcesRed = 30 }, "initial cargo"},
		{"negative timeout", func(o *Options) { o.Timeout = -1 }, "timeout"},
		{"empty random delay range", func(o *Options) {
			o.Respawn = RespawnPolicy{Timing: RespawnRandom, Delay: 5, DelayMax: 5}
		}, "delay_max"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := DefaultOptions()
			tc.mutate(&o)
			err := o.Validate()
			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("Validate() = %v, expected ErrInvalidOptions", err)
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Errorf("error %q does not mention %q", err, tc.substr)
			}
		})
	}
}

func TestOptionsValidateReportsAll(t *testing.T) {
	o := DefaultOptions()
	o.WorldDim = 2
	o.NumFuel = 1
	err := o.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, s := range []string{"world_dim", "num_fuel"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error %q missing %q", err, s)
		}
	}
}

func TestParseLocatorType(t *testing.T) {
	tests := []struct {
		in       string
		expected LocatorType
		wantErr  bool
	}{
		{"random", LocatorRandom, false},
		{"symmetric", LocatorSymmetric, false},
		{"in_line", LocatorInLine, false},
		{"inline", LocatorInLine, false},
		{"spiral", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLocatorType(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLocatorType(%q) error = %v", tc.in, err)
			}
			if got != tc.expected {
				t.Errorf("ParseLocatorType(%q) = %v, expected %v", tc.in, got, tc.expected)
			}
			if !tc.wantErr && got.String() != strings.Replace(tc.in, "inline", "in_line", 1) {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}
