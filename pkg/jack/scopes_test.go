package jack_test

import (
	"testing"

	"its-hmny.dev/nand2tetris/pkg/jack"
)

func TestScopeTable_ClassScope(t *testing.T) {
	st := jack.NewScopeTable()
	st.PushClassScope("Foo")

	if got := st.GetScope(); got != "Foo.Global" {
		t.Fatalf("GetScope() = %q, want %q", got, "Foo.Global")
	}

	st.RegisterVariable(jack.Variable{Name: "x", Kind: jack.Field, DataType: jack.DataType{Main: jack.Int}})
	st.RegisterVariable(jack.Variable{Name: "y", Kind: jack.Field, DataType: jack.DataType{Main: jack.Int}})
	st.RegisterVariable(jack.Variable{Name: "count", Kind: jack.Static, DataType: jack.DataType{Main: jack.Int}})

	cases := []struct {
		name    string
		wantIdx uint16
		wantVar jack.Variable
	}{
		{"x", 0, jack.Variable{Name: "x", Kind: jack.Field, DataType: jack.DataType{Main: jack.Int}}},
		{"y", 1, jack.Variable{Name: "y", Kind: jack.Field, DataType: jack.DataType{Main: jack.Int}}},
		{"count", 0, jack.Variable{Name: "count", Kind: jack.Static, DataType: jack.DataType{Main: jack.Int}}},
	}
	for _, tt := range cases {
		idx, v, err := st.ResolveVariable(tt.name)
		if err != nil {
			t.Fatalf("ResolveVariable(%q) returned error: %v", tt.name, err)
		}
		if idx != tt.wantIdx || v != tt.wantVar {
			t.Fatalf("ResolveVariable(%q) = (%d, %+v), want (%d, %+v)", tt.name, idx, v, tt.wantIdx, tt.wantVar)
		}
	}

	st.PopClassScope()
	if _, _, err := st.ResolveVariable("x"); err == nil {
		t.Fatalf("ResolveVariable(\"x\") after PopClassScope() should fail")
	}
}

func TestScopeTable_SubroutineShadowsClass(t *testing.T) {
	st := jack.NewScopeTable()
	st.PushClassScope("Point")
	st.RegisterVariable(jack.Variable{Name: "x", Kind: jack.Field, DataType: jack.DataType{Main: jack.Int}})

	st.PushSubRoutineScope("getX")
	if got := st.GetScope(); got != "Point.getX" {
		t.Fatalf("GetScope() = %q, want %q", got, "Point.getX")
	}
	st.RegisterVariable(jack.Variable{Name: "x", Kind: jack.Local, DataType: jack.DataType{Main: jack.Bool}})

	idx, v, err := st.ResolveVariable("x")
	if err != nil {
		t.Fatalf("ResolveVariable(\"x\") returned error: %v", err)
	}
	if idx != 0 || v.Kind != jack.Local {
		t.Fatalf("ResolveVariable(\"x\") = (%d, %+v), want local shadow at index 0", idx, v)
	}

	st.PopSubroutineScope()
	idx, v, err = st.ResolveVariable("x")
	if err != nil {
		t.Fatalf("ResolveVariable(\"x\") after pop returned error: %v", err)
	}
	if idx != 0 || v.Kind != jack.Field {
		t.Fatalf("ResolveVariable(\"x\") after pop = (%d, %+v), want field at index 0", idx, v)
	}
}

func TestScopeTable_StaticSurvivesClassScopePop(t *testing.T) {
	st := jack.NewScopeTable()
	st.PushClassScope("A")
	st.RegisterVariable(jack.Variable{Name: "total", Kind: jack.Static, DataType: jack.DataType{Main: jack.Int}})
	st.PopClassScope()

	if _, _, err := st.ResolveVariable("total"); err != nil {
		t.Fatalf("static variable should survive class scope pop: %v", err)
	}
}

func TestScopeTable_ParameterIndicesAreDense(t *testing.T) {
	st := jack.NewScopeTable()
	st.PushClassScope("Math")
	st.PushSubRoutineScope("add")

	st.RegisterVariable(jack.Variable{Name: "this", Kind: jack.Parameter, DataType: jack.ClassType("Math")})
	st.RegisterVariable(jack.Variable{Name: "a", Kind: jack.Parameter, DataType: jack.DataType{Main: jack.Int}})
	st.RegisterVariable(jack.Variable{Name: "b", Kind: jack.Parameter, DataType: jack.DataType{Main: jack.Int}})

	for i, name := range []string{"this", "a", "b"} {
		idx, _, err := st.ResolveVariable(name)
		if err != nil {
			t.Fatalf("ResolveVariable(%q) returned error: %v", name, err)
		}
		if int(idx) != i {
			t.Fatalf("ResolveVariable(%q) index = %d, want %d", name, idx, i)
		}
	}
}

func TestScopeTable_UndeclaredVariable(t *testing.T) {
	st := jack.NewScopeTable()
	st.PushClassScope("Foo")
	if _, _, err := st.ResolveVariable("nope"); err == nil {
		t.Fatal("expected an error for an undeclared variable")
	}
}

func TestScopeTable_DuplicateNameInSameScopeIsRejected(t *testing.T) {
	st := jack.NewScopeTable()
	st.PushClassScope("Foo")

	if err := st.RegisterVariable(jack.Variable{Name: "x", Kind: jack.Field, DataType: jack.DataType{Main: jack.Int}}); err != nil {
		t.Fatalf("first registration of 'x' returned error: %v", err)
	}
	if err := st.RegisterVariable(jack.Variable{Name: "x", Kind: jack.Field, DataType: jack.DataType{Main: jack.Bool}}); err == nil {
		t.Fatal("re-registering 'x' as a field should fail")
	}

	// The field scope should still only have the original entry.
	idx, v, err := st.ResolveVariable("x")
	if err != nil {
		t.Fatalf("ResolveVariable(\"x\") returned error: %v", err)
	}
	if idx != 0 || v.DataType.Main != jack.Int {
		t.Fatalf("ResolveVariable(\"x\") = (%d, %+v), want the original field untouched", idx, v)
	}
}

func TestScopeTable_DuplicateAcrossScopesIsShadowingNotAnError(t *testing.T) {
	st := jack.NewScopeTable()
	st.PushClassScope("Point")
	if err := st.RegisterVariable(jack.Variable{Name: "x", Kind: jack.Field, DataType: jack.DataType{Main: jack.Int}}); err != nil {
		t.Fatalf("registering field 'x' returned error: %v", err)
	}

	st.PushSubRoutineScope("getX")
	if err := st.RegisterVariable(jack.Variable{Name: "x", Kind: jack.Local, DataType: jack.DataType{Main: jack.Bool}}); err != nil {
		t.Fatalf("a local shadowing a field of the same name should not be rejected: %v", err)
	}
}
