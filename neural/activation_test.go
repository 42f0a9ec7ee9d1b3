package neural

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
)

func TestActivationValues(t *testing.T) {
	tests := []struct {
		kind ActivationKind
		x    float32
		want float32
	}{
		{Identity, 0.7, 0.7},
		{Sigmoid, 0, 0.5},
		{Tanh, 0, 0},
		{Tanh, 100, 1},
		{LeakyRelu, 2, 2},
		{LeakyRelu, -2, -0.02},
		{LeakyRelu, 0, 0},
		{Step, 0.001, 1},
		{Step, 0, 0},
		{Step, -3, 0},
		{Softsign, 1, 0.5},
		{Softsign, -3, -0.75},
		{Sin, 0, 0},
		{Gaussian, 0, 1},
		{Gaussian, 1, float32(math.Exp(-1))},
		{BentIdentity, 0, 0},
		{BentIdentity, 1, float32((math.Sqrt(2)-1)/2 + 1)},
		{Selu, 1, 1.0507009873554805},
		{Selu, 0, 0},
		{Selu, -100, float32(-1.0507009873554805 * 1.6732632423543772)},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			a := NewActivation(tt.kind)
			got := a.Activate(tt.x)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("%s(%v) = %v, want %v", tt.kind, tt.x, got, tt.want)
			}
		})
	}
}

func TestLatchRetainsState(t *testing.T) {
	a := NewLatch(0)

	if got := a.Activate(1.0); got != 1.0 {
		t.Fatalf("latch(1.0) = %v, want 1", got)
	}
	if a.State() != 1 {
		t.Fatalf("state = %d after saturating high, want 1", a.State())
	}
	if got := a.Activate(0.5); got != 1.0 {
		t.Errorf("latch(0.5) = %v, want retained 1", got)
	}
	if got := a.Activate(-0.2); got != 0 {
		t.Errorf("latch(-0.2) = %v, want 0", got)
	}
	if got := a.Activate(0.99); got != 0 {
		t.Errorf("latch(0.99) = %v, want retained 0", got)
	}
}

func TestPureActivationsKeepNoState(t *testing.T) {
	for _, kind := range ActivationKinds() {
		if kind == Latch {
			continue
		}
		a := NewActivation(kind)
		first := a.Activate(0.3)
		a.Activate(5)
		if second := a.Activate(0.3); second != first {
			t.Errorf("%s is not pure: %v then %v", kind, first, second)
		}
		if a.State() != 0 {
			t.Errorf("%s carries state %d", kind, a.State())
		}
	}
}

func TestRandomActivationCoversAllKinds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[ActivationKind]bool)
	for i := 0; i < 2000; i++ {
		a := RandomActivation(rng)
		if a.State() != 0 {
			t.Fatalf("random %s started with state %d", a.Kind, a.State())
		}
		seen[a.Kind] = true
	}
	if len(seen) != len(ActivationKinds()) {
		t.Errorf("sampled %d kinds, want %d", len(seen), len(ActivationKinds()))
	}
}

func TestActivationJSON(t *testing.T) {
	data, err := json.Marshal(NewLatch(1))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"kind":"latch","state":1}` {
		t.Errorf("latch json = %s", data)
	}

	data, err = json.Marshal(NewActivation(BentIdentity))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"kind":"bent_identity"}` {
		t.Errorf("bent identity json = %s", data)
	}

	var a Activation
	if err := json.Unmarshal([]byte(`{"kind":"latch","state":1}`), &a); err != nil {
		t.Fatal(err)
	}
	if a.Kind != Latch || a.State() != 1 {
		t.Errorf("decoded %+v, want latch with state 1", a)
	}

	if err := json.Unmarshal([]byte(`{"kind":"relu6"}`), &a); err == nil {
		t.Error("expected error for unknown activation")
	}
}

func TestBoundedClamps(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0.5, 0.5},
		{3, 1},
		{-7, -1},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := NewBounded(tt.in).Value(); got != tt.want {
			t.Errorf("NewBounded(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	b := NewBounded(0.9).Add(0.5)
	if b.Value() != 1 {
		t.Errorf("0.9 + 0.5 = %v, want clamped 1", b.Value())
	}

	var decoded Bounded
	if err := json.Unmarshal([]byte(`-4.5`), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Value() != -1 {
		t.Errorf("decoded -4.5 as %v, want -1", decoded.Value())
	}
}
