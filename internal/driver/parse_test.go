package driver

import "testing"

func TestBuildConfigCompileMode(t *testing.T) {
	cfg := BuildConfig([]string{"-c", "-DFOO=1", "-Iinclude", "-O2", "-o", "out.o", "a.cpp"})
	if cfg.Invalid {
		t.Fatalf("want: valid config, got invalid: %s", cfg.InvalidMsg)
	}
	if !cfg.Compile || cfg.Preproc {
		t.Errorf("want: Compile=true Preproc=false, got: Compile=%v Preproc=%v", cfg.Compile, cfg.Preproc)
	}
	if cfg.Output != "out.o" {
		t.Errorf("want: out.o, got: %q", cfg.Output)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0].Path != "a.cpp" {
		t.Fatalf("want: one input a.cpp, got: %+v", cfg.Inputs)
	}
	if cfg.Inputs[0].PositionBetweenArgs != len(cfg.Args) {
		t.Errorf("want: input position == len(Args) (%d), got: %d", len(cfg.Args), cfg.Inputs[0].PositionBetweenArgs)
	}

	var runtime []string
	for _, a := range cfg.Args {
		if a.AlsoRuntime {
			runtime = append(runtime, a.Text)
		}
	}
	want := []string{"-DFOO=1", "-Iinclude"}
	if len(runtime) != len(want) {
		t.Fatalf("want: %v, got: %v", want, runtime)
	}
	for i := range want {
		if runtime[i] != want[i] {
			t.Errorf("want: runtime[%d]=%q, got: %q", i, want[i], runtime[i])
		}
	}
}

func TestBuildConfigRejectsMissingModeFlag(t *testing.T) {
	cfg := BuildConfig([]string{"a.cpp"})
	if !cfg.Invalid {
		t.Errorf("want: invalid (no -c or -E), got: valid")
	}
}

func TestBuildConfigRejectsBothModeFlags(t *testing.T) {
	cfg := BuildConfig([]string{"-c", "-E", "a.cpp"})
	if !cfg.Invalid {
		t.Errorf("want: invalid (both -c and -E), got: valid")
	}
}

func TestBuildConfigRejectsNoInputs(t *testing.T) {
	cfg := BuildConfig([]string{"-c"})
	if !cfg.Invalid {
		t.Errorf("want: invalid (no inputs), got: valid")
	}
}

func TestBuildConfigRejectsUnsupportedOption(t *testing.T) {
	cfg := BuildConfig([]string{"-c", "-static", "a.cpp"})
	if !cfg.Invalid {
		t.Errorf("want: invalid (-static rejected), got: valid")
	}
}

func TestBuildConfigPerInputPosition(t *testing.T) {
	cfg := BuildConfig([]string{"-E", "-DFOO=1", "a.cpp", "-DBAR=2", "b.cpp"})
	if cfg.Invalid {
		t.Fatalf("want: valid config, got invalid: %s", cfg.InvalidMsg)
	}
	if len(cfg.Inputs) != 2 {
		t.Fatalf("want: two inputs, got: %d", len(cfg.Inputs))
	}
	if cfg.Inputs[0].PositionBetweenArgs != 1 {
		t.Errorf("want: a.cpp sees 1 preceding arg, got: %d", cfg.Inputs[0].PositionBetweenArgs)
	}
	if cfg.Inputs[1].PositionBetweenArgs != 2 {
		t.Errorf("want: b.cpp sees 2 preceding args, got: %d", cfg.Inputs[1].PositionBetweenArgs)
	}
}

func TestBuildConfigOutputSpecifiedTwice(t *testing.T) {
	cfg := BuildConfig([]string{"-c", "-o", "a.o", "-o", "b.o", "a.cpp"})
	if !cfg.Invalid {
		t.Errorf("want: invalid (output given twice), got: valid")
	}
}
