package main

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mingzhi/amrtime/align"
)

// Config to read flags and configure file.
type cmdConfig struct {
	// Flags.
	workspace string // workspace, holding the configure file.
	config    string // configure file name, without extension.

	settings []*setting
	v        *viper.Viper
}

// setting is a flag overriding a configure key when given.
type setting struct {
	key    string
	value  string
	set    bool
	isBool bool
}

func (s *setting) Set(v string) error {
	s.value = v
	s.set = true
	return nil
}

func (s *setting) String() string { return s.value }

func (s *setting) IsBoolFlag() bool { return s.isBool }

func (cmd *cmdConfig) register(app *kingpin.Application) {
	app.Flag("workspace", "workspace.").Short('w').Default(".").StringVar(&cmd.workspace)
	app.Flag("config", "configure file name in the workspace, without extension.").Short('c').Default("config").StringVar(&cmd.config)
	cmd.flag(app.Flag("log-level", "log level."), "log.level")
}

// flag binds a flag to a configure key.
func (cmd *cmdConfig) flag(f *kingpin.FlagClause, key string) {
	s := &setting{key: key}
	f.SetValue(s)
	cmd.settings = append(cmd.settings, s)
}

// boolFlag binds a boolean flag, which also accepts --no-<name>.
func (cmd *cmdConfig) boolFlag(f *kingpin.FlagClause, key string) {
	s := &setting{key: key, isBool: true}
	f.SetValue(s)
	cmd.settings = append(cmd.settings, s)
}

// Parse configs.
func (cmd *cmdConfig) ParseConfig() error {
	v := viper.New()
	v.SetConfigName(cmd.config)
	v.AddConfigPath(cmd.workspace)
	v.SetEnvPrefix("AMRTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("diamond.path", "diamond")
	v.SetDefault("diamond.sensitivity", "more-sensitive")
	v.SetDefault("diamond.threads", 2)
	v.SetDefault("mmseqs.path", "mmseqs")
	v.SetDefault("seqtk.path", "seqtk")
	v.SetDefault("mason.path", "mason_simulator")
	v.SetDefault("align.tool", align.ToolDiamond)
	v.SetDefault("encode.metric", "bitscore")
	v.SetDefault("kmer.k", 4)
	v.SetDefault("output.format", "tsv")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	for _, s := range cmd.settings {
		if s.set {
			v.Set(s.key, s.value)
		}
	}
	cmd.v = v

	return cmd.registerLogger()
}

func (cmd *cmdConfig) registerLogger() error {
	level, err := logrus.ParseLevel(cmd.v.GetString("log.level"))
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	if f := cmd.v.ConfigFileUsed(); f != "" {
		logger.Debugf("using configure file %s", f)
	}
	return nil
}

func (cmd *cmdConfig) diamond() align.Diamond {
	return align.Diamond{
		Path:        cmd.v.GetString("diamond.path"),
		Threads:     cmd.v.GetInt("diamond.threads"),
		Sensitivity: cmd.v.GetString("diamond.sensitivity"),
	}
}

func (cmd *cmdConfig) mmseqs() align.MMseqs {
	return align.MMseqs{
		Path:    cmd.v.GetString("mmseqs.path"),
		TmpDir:  cmd.v.GetString("mmseqs.tmpdir"),
		Threads: cmd.v.GetInt("mmseqs.threads"),
	}
}

func (cmd *cmdConfig) seqtk() align.Seqtk {
	return align.Seqtk{Path: cmd.v.GetString("seqtk.path")}
}

func (cmd *cmdConfig) mason() align.Mason {
	return align.Mason{Path: cmd.v.GetString("mason.path")}
}
