package drop

import "testing"

type counter struct {
	n *int
}

func (c counter) Drop() { *c.n++ }

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc     string
		useFunc  bool
		wantDrop int
		wantFunc int
	}{
		{desc: "Dropper is called", wantDrop: 1},
		{desc: "Func wins over Dropper", useFunc: true, wantFunc: 1},
	}

	for _, test := range tests {
		drops, funcs := 0, 0
		var fn Func[counter]
		if test.useFunc {
			fn = func(counter) { funcs++ }
		}

		Run(counter{n: &drops}, fn)

		if drops != test.wantDrop {
			t.Errorf("TestRun(%s): got %d Drop() calls, want %d", test.desc, drops, test.wantDrop)
		}
		if funcs != test.wantFunc {
			t.Errorf("TestRun(%s): got %d Func calls, want %d", test.desc, funcs, test.wantFunc)
		}
	}

	// Values that don't implement Dropper are simply ignored.
	Run(42, nil)
}
