package driver

// BuildConfig classifies argv (excluding argv[0]) into a Config, per
// SPEC_FULL.md §4.B. It never touches the filesystem or spawns anything —
// ResolveTools and NewTempDir do that once the caller has decided the parse
// succeeded.
func BuildConfig(argv []string) *Config {
	cfg := &Config{
		Args: make([]CompilerArg, 0, len(argv)),
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "" {
			continue
		}

		if arg[0] == '@' {
			cfg.reject("@file arguments are not implemented")
			continue
		}

		if arg[0] != '-' {
			cfg.Inputs = append(cfg.Inputs, InputFile{Path: arg, PositionBetweenArgs: len(cfg.Args)})
			continue
		}

		e := matchOption(arg)
		if e == nil {
			cfg.reject("unrecognized option: " + arg)
			continue
		}

		value, ok := optionValue(e, arg, argv, &i)
		if !ok {
			cfg.reject("option " + e.key + " requires an argument")
			continue
		}

		applyAction(cfg, e, arg, value)
	}

	if !cfg.Invalid {
		if cfg.Compile == cfg.Preproc {
			cfg.reject("exactly one of -c or -E must be given")
		} else if len(cfg.Inputs) == 0 {
			cfg.reject("no input files")
		}
	}

	return cfg
}

func applyAction(cfg *Config, e *optionEntry, arg, value string) {
	switch e.action {
	case actionForward:
		cfg.Args = append(cfg.Args, CompilerArg{Text: reassemble(e, arg, value), AlsoRuntime: true})
	case actionForwardNoRT:
		cfg.Args = append(cfg.Args, CompilerArg{Text: reassemble(e, arg, value), AlsoRuntime: false})
	case actionReject:
		cfg.reject("unsupported option: " + arg)
	case actionSetOutput:
		if cfg.Output != "" {
			cfg.reject("output file specified more than once")
			return
		}
		cfg.Output = value
	case actionSetCompile:
		cfg.Compile = true
	case actionSetPreproc:
		cfg.Preproc = true
	case actionSetNowarn:
		cfg.Nowarn = true
	case actionSetVerbose:
		cfg.Verbose = true
		cfg.Args = append(cfg.Args, CompilerArg{Text: arg, AlsoRuntime: true})
	case actionSetLanguage:
		if value != "c++" {
			cfg.reject("unsupported -x language: " + value)
		}
	case actionHelp:
		cfg.reject("") // caller checks Invalid before printing usage and exiting 0 instead of 1
	}
}

// reassemble rebuilds the flag text for forwarding: for syntaxNoArg it's just
// arg; for everything else it's "key+value" so forwarded args always use the
// glued form regardless of how they were originally written ("-I foo" and
// "-Ifoo" both forward as "-Ifoo"; "-std=c++17" forwards unchanged since the
// table's key already carries the "=").
func reassemble(e *optionEntry, arg, value string) string {
	if e.syntax == syntaxNoArg {
		return arg
	}
	return e.key + value
}
