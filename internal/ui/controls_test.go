package ui

import (
	"testing"

	"automata/internal/core"
)

func TestStepIntClampsToBounds(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeInt, Step: 10, Min: 10, Max: 100, HasMin: true, HasMax: true}
	if v, ok := stepInt(ctrl, 95, 1); !ok || v != 100 {
		t.Fatalf("step up from 95 = %d, %v", v, ok)
	}
	if _, ok := stepInt(ctrl, 100, 1); ok {
		t.Fatalf("step past max should not change the value")
	}
	if v, ok := stepInt(ctrl, 15, -1); !ok || v != 10 {
		t.Fatalf("step down from 15 = %d, %v", v, ok)
	}
	if v, _ := stepInt(core.ParameterControl{}, 3, -1); v != 2 {
		t.Fatalf("default step = %d, want 2", v)
	}
}

func TestStepFloat(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.1, Max: 1, HasMax: true}
	if v, ok := stepFloat(ctrl, 0.95, 1); !ok || v != 1 {
		t.Fatalf("step up = %v, %v", v, ok)
	}
	if _, ok := stepFloat(ctrl, 1, 1); ok {
		t.Fatalf("step at max should not change the value")
	}
}

func TestReadControl(t *testing.T) {
	intCtrl := core.ParameterControl{Key: "max_health", Type: core.ParamTypeInt}
	v := readControl(intCtrl, core.IntParam("max_health", "Max", 40), true)
	if !v.ok || v.i != 40 || v.text != "40" {
		t.Fatalf("int value = %+v", v)
	}
	floatCtrl := core.ParameterControl{Key: "epsilon", Type: core.ParamTypeFloat, Step: 0.005}
	v = readControl(floatCtrl, core.FloatParam("epsilon", "Eps", 0.01), true)
	if !v.ok || v.text != "0.010" {
		t.Fatalf("float value = %+v", v)
	}
	if v := readControl(intCtrl, core.Parameter{}, false); v.ok || v.text != "--" {
		t.Fatalf("missing value = %+v", v)
	}
	if v := readControl(intCtrl, core.Parameter{Value: "x"}, true); v.ok {
		t.Fatalf("bad value accepted: %+v", v)
	}
}
