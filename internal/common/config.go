package common

import (
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional dcc.toml file, read by both the build driver and
// any long-running host process embedding the runtime specialization engine.
// Values here sit below environment variables and explicit flags in
// precedence; see ApplyConfigDefaults.
type FileConfig struct {
	CxxName       string `toml:"cxx_name"`
	LdName        string `toml:"ld_name"`
	Nowarn        bool   `toml:"nowarn"`
	Verbose       bool   `toml:"verbose"`
	TmpDir        string `toml:"tmp_dir"`
	LogFileName   string `toml:"log_filename"`
	LogVerbosity  int    `toml:"log_verbosity"`
	SystemdNotify bool   `toml:"systemd_notify"`
}

// ParseFileConfig reads filePath as TOML. A missing or empty filePath is not
// an error: callers get a zero-value FileConfig and every field stays unset.
func ParseFileConfig(filePath string) (*FileConfig, error) {
	config := &FileConfig{}
	if filePath == "" {
		return config, nil
	}
	if _, err := toml.DecodeFile(filePath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// AsFlagDefaults projects the non-zero fields of a FileConfig, other than
// SystemdNotify, onto the cmd-flag-name keyed map expected by
// ApplyConfigDefaults. No dcc flag is named "nowarn" or "verbose", so
// ApplyConfigDefaults ignores those two keys.
func (config *FileConfig) AsFlagDefaults() map[string]string {
	values := make(map[string]string, 8)
	if config.CxxName != "" {
		values["cxx-name"] = config.CxxName
	}
	if config.LdName != "" {
		values["ld-name"] = config.LdName
	}
	if config.Nowarn {
		values["nowarn"] = "true"
	}
	if config.Verbose {
		values["verbose"] = "true"
	}
	if config.TmpDir != "" {
		values["tmp-dir"] = config.TmpDir
	}
	if config.LogFileName != "" {
		values["log-filename"] = config.LogFileName
	}
	if config.LogVerbosity != 0 {
		values["log-verbosity"] = strconv.Itoa(config.LogVerbosity)
	}
	return values
}
