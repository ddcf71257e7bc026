package ui

import (
	"math"
	"strconv"

	"automata/internal/core"
)

// controlValue is the last value read for a control.
type controlValue struct {
	ok   bool
	i    int
	f    float64
	text string
}

func readControl(ctrl core.ParameterControl, p core.Parameter, found bool) controlValue {
	if !found {
		return controlValue{text: "--"}
	}
	switch ctrl.Type {
	case core.ParamTypeInt:
		v, err := strconv.Atoi(p.Value)
		if err != nil {
			break
		}
		return controlValue{ok: true, i: v, f: float64(v), text: strconv.Itoa(v)}
	case core.ParamTypeFloat:
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			break
		}
		return controlValue{ok: true, f: v, text: formatFloat(ctrl, v)}
	}
	return controlValue{text: "--"}
}

// stepInt moves cur one step in dir and clamps it to the control bounds. It
// reports false when the value would not change.
func stepInt(ctrl core.ParameterControl, cur, dir int) (int, bool) {
	step := int(math.Round(ctrl.Step))
	if step <= 0 {
		step = 1
	}
	next := cur + dir*step
	if ctrl.HasMin {
		next = max(next, int(math.Round(ctrl.Min)))
	}
	if ctrl.HasMax {
		next = min(next, int(math.Round(ctrl.Max)))
	}
	return next, next != cur
}

// stepFloat is stepInt for float controls; the default step is 0.05.
func stepFloat(ctrl core.ParameterControl, cur float64, dir int) (float64, bool) {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	next := cur + float64(dir)*step
	if ctrl.HasMin {
		next = math.Max(next, ctrl.Min)
	}
	if ctrl.HasMax {
		next = math.Min(next, ctrl.Max)
	}
	return next, math.Abs(next-cur) >= 1e-9
}

// formatFloat picks the precision from the control's step size.
func formatFloat(ctrl core.ParameterControl, v float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
