package constraints

import (
	"testing"

	"github.com/caarlos0/env/v11"

	"github.com/paiban/roster/internal/config"
)

func TestGetLibrary(t *testing.T) {
	cfg, err := config.Parse(env.Options{Environment: map[string]string{
		"SCHEDULER_WEIGHT_COVERAGE": "800",
		"SCHEDULER_MAX_CONSECUTIVE": "5",
	}})
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}

	lib := GetLibrary(cfg.Scheduler)
	byName := make(map[string]ConstraintDefinition, len(lib))
	hard := 0
	for _, def := range lib {
		byName[def.Name] = def
		if def.Type == "hard" {
			hard++
		}
	}

	if hard != 3 {
		t.Errorf("hard rules = %d, expected 3", hard)
	}
	if got := byName["night_off_day"].DisplayName; got != "N-O-D" {
		t.Errorf("night_off_day.DisplayName = %q, expected N-O-D", got)
	}

	tests := []struct {
		name     string
		rule     string
		param    string
		value    string
		defValue string
	}{
		{"覆盖权重取配置值", "coverage", "weight", "800", "500"},
		{"连续上限取配置值", "max_consecutive_work", "max_days", "5", "4"},
		{"平日白班默认值", "coverage", "weekday_day", "3", "3"},
		{"均衡权重默认值", "shift_balance", "weight", "10", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := byName[tt.rule]
			if !ok {
				t.Fatalf("rule %s missing", tt.rule)
			}
			for _, p := range def.Params {
				if p.Name != tt.param {
					continue
				}
				if p.Value != tt.value || p.Default != tt.defValue {
					t.Errorf("%s.%s = %s (default %s), expected %s (default %s)", tt.rule, tt.param, p.Value, p.Default, tt.value, tt.defValue)
				}
				return
			}
			t.Errorf("param %s.%s missing", tt.rule, tt.param)
		})
	}
}
