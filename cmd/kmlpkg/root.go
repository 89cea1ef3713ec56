package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"git.fractalqb.de/fractalqb/kmlpkg"
	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
	"git.fractalqb.de/fractalqb/kmlpkg/pkgdb"
	"git.fractalqb.de/fractalqb/kmlpkg/profile"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kmlpkg",
	Short: "Build the libkml package",
	Long: `kmlpkg builds libkml from its upstream sources and packages the
libraries in link order for binary distribution.

Settings are read from flags, KMLPKG_* environment variables and the
configuration file kmlpkg.yaml in the current directory or in
$HOME/.config/kmlpkg.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Configuration file")
	pf.String("profile", "", "Build profile (TOML), default is the host profile")
	pf.String("version", "", "libkml version, default is the latest in conandata.yml")
	pf.String("recipe-dir", ".", "Directory with conandata.yml and patches")
	pf.String("work-dir", "build", "Directory for sources, build and package")
	pf.String("db", "", "Package registry, default is packages.db in the work dir")
	pf.String("trace", "warn", "Build trace level: off, warn, info or debug")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.StringSlice("env", nil, "Set KEY=VALUE or remove -KEY in the environment of CMake")
	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
}

func initConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("kmlpkg")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kmlpkg"))
		}
	}
	viper.SetEnvPrefix("KMLPKG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// session bundles what a command needs to run the recipe.
type session struct {
	log   *slog.Logger
	trace *gomkore.Trace
	env   *gomkore.Env
	cfg   *kmlpkg.Config
}

func newSession(cmd *cobra.Command) (*session, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}
	tracer := kmlpkg.DefaultTracer()
	if err := tracer.ParseLevel(viper.GetString("trace")); err != nil {
		return nil, err
	}
	tr := gomkore.NewTrace(cmd.Context(), tracer)
	tr.SetSession(uuid.NewString())
	env := gomkore.DefaultEnv(tr).Sub()
	env.Log = log.With("session", tr.Session())
	applyEnv(env, viper.GetStringSlice("env"))

	prof := profile.Default()
	if p := viper.GetString("profile"); p != "" {
		if prof, err = profile.Load(p); err != nil {
			return nil, err
		}
	}
	recipe := kmlpkg.Libkml
	cfg, err := kmlpkg.NewConfig(
		&recipe,
		viper.GetString("recipe-dir"),
		viper.GetString("work-dir"),
		viper.GetString("version"),
		prof,
	)
	if err != nil {
		return nil, err
	}
	log.Debug("configured",
		"ref", cfg.Ref(),
		"package_id", cfg.PackageID(),
		"work_dir", cfg.WorkDir,
	)
	return &session{log: log, trace: tr, env: env, cfg: cfg}, nil
}

// applyEnv sets the tags KEY=VALUE and deletes the tags -KEY of defs.
func applyEnv(env *gomkore.Env, defs []string) {
	for _, d := range defs {
		if k, ok := strings.CutPrefix(d, "-"); ok {
			env.DelTag(k)
		} else {
			env.SetTags(d)
		}
	}
}

func (s *session) openRegistry() error {
	path := viper.GetString("db")
	if path == "" {
		path = filepath.Join(s.cfg.WorkDir, "packages.db")
	}
	db, err := pkgdb.Open(path, s.log)
	if err != nil {
		return err
	}
	s.cfg.Registry = db
	return nil
}

func (s *session) close() {
	if s.cfg.Registry != nil {
		if err := s.cfg.Registry.Close(); err != nil {
			s.log.Warn("close registry", "error", err)
		}
	}
}
