package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_BehindRay(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected miss for sphere behind the ray, got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Roots_ThroughCenter(t *testing.T) {
	const radius = 2.0
	sphere := NewSphere(core.NewVec3(0, 0, 0), radius)

	t.Run("origin inside straddles zero", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, 0.5), core.NewVec3(0, 0, -1))
		t0, t1, ok := sphere.Roots(ray)
		if !ok {
			t.Fatal("Expected real roots")
		}
		if !(t0 < 0 && t1 > 0) {
			t.Errorf("Expected roots straddling zero, got %f and %f", t0, t1)
		}
	})

	t.Run("origin outside moving toward sphere", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
		t0, t1, ok := sphere.Roots(ray)
		if !ok {
			t.Fatal("Expected real roots")
		}
		if math.Abs(t0-8) > 1e-9 || math.Abs(t1-12) > 1e-9 {
			t.Errorf("Expected roots 8 and 12, got %f and %f", t0, t1)
		}
	})

	t.Run("complex roots", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(5, 0, 10), core.NewVec3(0, 0, -1))
		if _, _, ok := sphere.Roots(ray); ok {
			t.Error("Expected no real roots for a ray passing outside the sphere")
		}
	})

	t.Run("zero direction", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, 0))
		if _, _, ok := sphere.Roots(ray); ok {
			t.Error("Expected no roots for a zero-length direction")
		}
	})
}

func TestSphere_Hit_PointLiesOnSurface(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, -2, 3), 1.75)

	origins := []core.Vec3{
		core.NewVec3(10, 4, -7),
		core.NewVec3(-3, -2, 3),
		core.NewVec3(1.5, -2.2, 3.1), // inside
	}

	for _, origin := range origins {
		ray := core.NewRay(origin, sphere.Center.Add(core.NewVec3(0.1, 0.2, -0.05)).Subtract(origin))
		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			t.Fatalf("Expected hit from origin %v", origin)
		}

		point := ray.Origin.Add(ray.Direction.Multiply(hit.T))
		distance := point.Subtract(sphere.Center).Length()
		if math.Abs(distance-sphere.Radius) > 1e-4 {
			t.Errorf("Origin %v: hit point %v is %f from center, expected %f", origin, point, distance, sphere.Radius)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Errorf("Origin %v: expected unit normal, got length %f", origin, hit.Normal.Length())
		}
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_RespectsRange(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	if _, isHit := sphere.Hit(ray, 0.001, 3.5); isHit {
		t.Error("Expected miss when tMax is before the sphere")
	}

	// Near root excluded, far root still in range
	hit, isHit := sphere.Hit(ray, 4.5, 100)
	if !isHit {
		t.Fatal("Expected far-side hit")
	}
	if math.Abs(hit.T-6) > 1e-9 {
		t.Errorf("Expected t=6, got %f", hit.T)
	}
}

func TestSphere_Hit_UV(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.U < 0 || hit.U > 1 || hit.V < 0 || hit.V > 1 {
		t.Errorf("Expected UV in [0,1], got (%f, %f)", hit.U, hit.V)
	}
	if math.Abs(hit.V-1) > 1e-9 {
		t.Errorf("Expected v=1 at the north pole, got %f", hit.V)
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sphere  *Sphere
		wantErr bool
	}{
		{"positive radius", NewSphere(core.NewVec3(0, 0, 0), 0.5), false},
		{"zero radius", NewSphere(core.NewVec3(0, 0, 0), 0), true},
		{"negative radius", NewSphere(core.NewVec3(0, 0, 0), -1), true},
		{"NaN radius", NewSphere(core.NewVec3(0, 0, 0), math.NaN()), true},
		{"infinite center", NewSphere(core.NewVec3(math.Inf(1), 0, 0), 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrDegenerateShape) {
					t.Errorf("Expected ErrDegenerateShape, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
