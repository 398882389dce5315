package driver

import "testing"

func TestMatchOptionLongestPrefixWins(t *testing.T) {
	e := matchOption("-fvisibility=hidden")
	if e == nil || e.key != "-fvisibility=" {
		t.Fatalf("want: -fvisibility=, got: %+v", e)
	}

	e = matchOption("-fno-exceptions")
	if e == nil || e.key != "-f" {
		t.Fatalf("want: -f, got: %+v", e)
	}
}

func TestMatchOptionNoMatch(t *testing.T) {
	if e := matchOption("-Qunused-arguments"); e != nil {
		t.Errorf("want: nil, got: %+v", e)
	}
}

func TestOptionValueImmediate(t *testing.T) {
	e := matchOption("-std=c++17")
	argv := []string{"-std=c++17"}
	i := 0
	v, ok := optionValue(e, argv[0], argv, &i)
	if !ok || v != "c++17" {
		t.Errorf("want: c++17, got: %q (ok=%v)", v, ok)
	}
}

func TestOptionValueSeparate(t *testing.T) {
	e := matchOption("-o")
	argv := []string{"-o", "out.o"}
	i := 0
	v, ok := optionValue(e, argv[0], argv, &i)
	if !ok || v != "out.o" {
		t.Errorf("want: out.o, got: %q (ok=%v)", v, ok)
	}
	if i != 1 {
		t.Errorf("want: i advanced to 1, got: %d", i)
	}
}

func TestOptionValueSeparateMissingArg(t *testing.T) {
	e := matchOption("-o")
	argv := []string{"-o"}
	i := 0
	if _, ok := optionValue(e, argv[0], argv, &i); ok {
		t.Errorf("want: ok=false for missing value, got: true")
	}
}

func TestOptionValueImmOrSepBothForms(t *testing.T) {
	e := matchOption("-Ifoo/bar")
	argv := []string{"-Ifoo/bar"}
	i := 0
	v, ok := optionValue(e, argv[0], argv, &i)
	if !ok || v != "foo/bar" {
		t.Errorf("want: foo/bar, got: %q", v)
	}

	e = matchOption("-I")
	argv = []string{"-I", "foo/bar"}
	i = 0
	v, ok = optionValue(e, argv[0], argv, &i)
	if !ok || v != "foo/bar" {
		t.Errorf("want: foo/bar, got: %q", v)
	}
}
