package core

import (
	"math"
	"testing"
)

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		incoming Vec3
		normal   Vec3
		expected Vec3
	}{
		{
			name:     "Head-on reflection",
			incoming: NewVec3(0, 0, -1),
			normal:   NewVec3(0, 0, 1),
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "45 degree reflection off floor",
			incoming: NewVec3(1, -1, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(1, 1, 0),
		},
		{
			name:     "Grazing ray is unchanged",
			incoming: NewVec3(1, 0, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(1, 0, 0),
		},
		{
			name:     "Normal sign does not matter",
			incoming: NewVec3(1, -1, 0),
			normal:   NewVec3(0, -1, 0),
			expected: NewVec3(1, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.incoming.Reflect(tt.normal)

			const tolerance = 1e-12
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_NormalizeChecked(t *testing.T) {
	tests := []struct {
		name   string
		vector Vec3
		valid  bool
	}{
		{"unit axis", NewVec3(0, 0, 1), true},
		{"arbitrary", NewVec3(3, 4, 12), true},
		{"zero vector", NewVec3(0, 0, 0), false},
		{"NaN component", NewVec3(math.NaN(), 0, 1), false},
		{"infinite component", NewVec3(math.Inf(1), 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, ok := tt.vector.NormalizeChecked()
			if ok != tt.valid {
				t.Fatalf("Expected ok=%t, got %t", tt.valid, ok)
			}
			if ok && math.Abs(unit.Length()-1) > 1e-12 {
				t.Errorf("Expected unit length, got %f", unit.Length())
			}
			if !ok && unit != (Vec3{}) {
				t.Errorf("Expected zero vector on failure, got %v", unit)
			}
		})
	}
}

func TestVec3_Normalize_ZeroVector(t *testing.T) {
	if got := NewVec3(0, 0, 0).Normalize(); got != (Vec3{}) {
		t.Errorf("Expected zero vector, got %v", got)
	}
}

func TestVec3_Clamp(t *testing.T) {
	v := NewVec3(-0.5, 0.25, 3.0).Clamp(0, 1)
	expected := NewVec3(0, 0.25, 1)
	if v != expected {
		t.Errorf("Expected %v, got %v", expected, v)
	}
}

func TestVec3_CrossAndDot(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	if got := x.Cross(y); got != NewVec3(0, 0, 1) {
		t.Errorf("Expected x × y = z, got %v", got)
	}
	if got := x.Dot(y); got != 0 {
		t.Errorf("Expected orthogonal dot product 0, got %f", got)
	}
	if got := NewVec3(1, 2, 3).Dot(NewVec3(4, 5, 6)); got != 32 {
		t.Errorf("Expected dot product 32, got %f", got)
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(1, math.NaN(), 3).IsFinite() {
		t.Error("Expected NaN vector to be non-finite")
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := ray.At(1.5); got != NewVec3(1, 3, 0) {
		t.Errorf("Expected (1,3,0), got %v", got)
	}
}
