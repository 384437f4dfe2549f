package plugin

import (
	"math/rand"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	return r
}

func TestResolveBuiltins(t *testing.T) {
	r := newTestRegistry(t)

	for _, name := range []string{ShapeCircle, ShapeSquare, ShapeTriangle, ShapeStar} {
		s, err := r.ResolveShape(name)
		if err != nil {
			t.Errorf("ResolveShape(%q): %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("Shape %q reports name %q", name, s.Name())
		}
	}

	for _, name := range []string{ColorSpectrum, ColorSolid, ColorGradient} {
		if _, err := r.ResolveColor(name); err != nil {
			t.Errorf("ResolveColor(%q): %v", name, err)
		}
	}

	for _, name := range []string{EffectNone, EffectSwirl, EffectGravity} {
		if _, err := r.ResolveEffect(name); err != nil {
			t.Errorf("ResolveEffect(%q): %v", name, err)
		}
	}
}

func TestUnknownIdentifierIsError(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.Resolve(KindShape, "dodecahedron"); err == nil {
		t.Error("Expected error for unknown shape identifier")
	}
	if _, err := r.ResolveColor("plaid"); err == nil {
		t.Error("Expected error for unknown color identifier")
	}
}

func TestResolveOrDefaultFallsBackToFirst(t *testing.T) {
	r := newTestRegistry(t)

	inst, err := r.ResolveOrDefault(KindShape, "nonexistent")
	if err != nil {
		t.Fatalf("ResolveOrDefault: %v", err)
	}
	first := r.Available(KindShape)[0]
	if inst.(Shape).Name() != first {
		t.Errorf("Expected fallback to first registered shape %q, got %q", first, inst.(Shape).Name())
	}

	empty := NewRegistry()
	if _, err := empty.ResolveOrDefault(KindShape, "anything"); err == nil {
		t.Error("Expected error when no plugins of the kind are registered")
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Register(Descriptor{Kind: KindShape, Name: ShapeCircle}, func() any {
		return &basicShape{name: ShapeCircle}
	})
	if err == nil {
		t.Error("Expected duplicate registration to fail")
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	r := newTestRegistry(t)

	// Same identifier may exist in different kinds
	err := r.Register(Descriptor{Kind: KindEffect, Name: ShapeCircle}, func() any { return noneEffect{} })
	if err != nil {
		t.Errorf("Cross-kind identifier reuse should be allowed: %v", err)
	}
}

func TestKindMismatchRejected(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Descriptor{Kind: KindColor, Name: "bogus"}, func() any { return noneEffect{} })
	if err == nil {
		t.Error("Expected registration of a non-Color instance under KindColor to fail")
	}
}

func TestAvailablePreservesRegistrationOrder(t *testing.T) {
	r := newTestRegistry(t)

	shapes := r.Available(KindShape)
	expected := []string{ShapeCircle, ShapeSquare, ShapeTriangle, ShapeStar}
	if len(shapes) != len(expected) {
		t.Fatalf("Expected %d shapes, got %d", len(expected), len(shapes))
	}
	for i, name := range expected {
		if shapes[i] != name {
			t.Errorf("Position %d: expected %q, got %q", i, name, shapes[i])
		}
	}
}

func TestSpawnParamsWithinDeclaredRanges(t *testing.T) {
	r := newTestRegistry(t)
	rng := rand.New(rand.NewSource(42))

	s, err := r.ResolveShape(ShapeStar)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		sp := s.SpawnParams(rng)
		if sp.SizeScale < 0.8 || sp.SizeScale > 1.8 {
			t.Fatalf("SizeScale %f outside [0.8, 1.8]", sp.SizeScale)
		}
		if sp.Speed < 0.5 || sp.Speed > 1.0 {
			t.Fatalf("Speed %f outside [0.5, 1.0]", sp.Speed)
		}
		if sp.Spin < -0.35 || sp.Spin > 0.35 {
			t.Fatalf("Spin %f outside ±0.35", sp.Spin)
		}
	}
}
