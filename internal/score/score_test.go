package score

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	var n = DefaultNormalizer()
	tests := []struct {
		text string
		want int
	}{
		{"+56", 56},
		{"56", 56},
		{"-10", -10},
		{"0", 0},
		{" +120 ", 120},
		{"+9000", 9000},
		{"#5", DefaultMateScore},
		{"#3", DefaultMateScore},
		{"#+1", DefaultMateScore},
		{"#-5", -DefaultMateScore},
		{"#-2", -DefaultMateScore},
		{"#0", -DefaultMateScore},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var got, err = n.Parse(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	var n = DefaultNormalizer()
	for _, text := range []string{"", "+", "-", "#", "#-", "abc", "1.5", "12a", "++3", "# 3", "M3", "1-0"} {
		var _, err = n.Parse(text)
		if !errors.Is(err, ErrScoreParse) {
			t.Errorf("Parse(%q) error = %v, want ErrScoreParse", text, err)
		}
	}
}

func TestNormalizeKnownValue(t *testing.T) {
	var n = DefaultNormalizer()
	var raw, target, err = n.Normalize("+56")
	if err != nil {
		t.Fatal(err)
	}
	if raw != 56 {
		t.Errorf("raw = %v", raw)
	}
	if math.Abs(target-math.Tanh(56.0/600)) > 1e-12 || math.Abs(target-0.0930) > 1e-4 {
		t.Errorf("target = %v", target)
	}
}

func TestMateScoresAreSymmetric(t *testing.T) {
	var n = DefaultNormalizer()
	var rawWin, targetWin, err = n.Normalize("#5")
	if err != nil {
		t.Fatal(err)
	}
	rawLoss, targetLoss, err := n.Normalize("#-5")
	if err != nil {
		t.Fatal(err)
	}
	if rawWin != n.MateScore || rawLoss != -n.MateScore {
		t.Errorf("mate scores %v %v", rawWin, rawLoss)
	}
	if targetWin != -targetLoss {
		t.Errorf("mate targets %v %v", targetWin, targetLoss)
	}
	if targetWin != n.Target(n.ClampScore) {
		t.Errorf("mate target %v is not clamped", targetWin)
	}
}

func TestTargetMonotonicAndBounded(t *testing.T) {
	var n = DefaultNormalizer()
	if n.Target(0) != 0 {
		t.Fatalf("Target(0) = %v", n.Target(0))
	}
	var prev = math.Inf(-1)
	for s := -n.ClampScore; s <= n.ClampScore; s++ {
		var y = n.Target(s)
		if !(y > -1 && y < 1) {
			t.Fatalf("Target(%v) = %v out of range", s, y)
		}
		if !(y > prev) {
			t.Fatalf("Target(%v) = %v is not above %v", s, y, prev)
		}
		prev = y
	}
	if n.Target(n.ClampScore+500) != n.Target(n.ClampScore) {
		t.Errorf("score above clamp bound is not clamped")
	}
	if n.Target(-n.MateScore) != n.Target(-n.ClampScore) {
		t.Errorf("score below clamp bound is not clamped")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-5, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("int clamp")
	}
	if Clamp(0.5, -0.25, 0.25) != 0.25 {
		t.Error("float clamp")
	}
}
