package noise

import "testing"

func TestFieldDeterministic(t *testing.T) {
	a := New(42, DefaultOctaves)
	b := New(42, DefaultOctaves)
	for i := 0; i < 50; i++ {
		x, y := float64(i)*3.7, float64(i)*-1.3
		if a.FBM(Surface, x, y, 150) != b.FBM(Surface, x, y, 150) {
			t.Fatalf("FBM differs at (%v,%v)", x, y)
		}
		if a.Line(x/10) != b.Line(x/10) {
			t.Fatalf("Line differs at %v", x)
		}
	}
}

func TestChannelsIndependent(t *testing.T) {
	f := New(7, DefaultOctaves)
	same := 0
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.37
		if f.Simplex(Surface, x, 1.5) == f.Simplex(Caves, x, 1.5) {
			same++
		}
	}
	if same > 5 {
		t.Errorf("surface and cave channels matched %d/100 samples", same)
	}
}

func TestFBMRange(t *testing.T) {
	f := New(99, Octaves{Count: 5, Persistence: 0.5, Lacunarity: 2})
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			v := f.FBM(Caves, float64(x), float64(y), 8)
			if v < -1 || v > 1 {
				t.Fatalf("FBM(%d,%d) = %v out of range", x, y, v)
			}
		}
	}
}

func TestHashSeed(t *testing.T) {
	if HashSeed("doomerang") != HashSeed("doomerang") {
		t.Error("HashSeed not stable")
	}
	if HashSeed("a") == HashSeed("b") {
		t.Error("HashSeed collided on trivial input")
	}
}

func TestHash2Distinct(t *testing.T) {
	seen := make(map[uint64][2]int)
	for x := -10; x <= 10; x++ {
		for y := -10; y <= 10; y++ {
			h := Hash2(1234, x, y)
			if prev, ok := seen[h]; ok {
				t.Fatalf("Hash2 collision between %v and (%d,%d)", prev, x, y)
			}
			seen[h] = [2]int{x, y}
		}
	}
}
