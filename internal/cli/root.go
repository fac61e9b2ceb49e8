// Package cli implements the sinew command-line tool.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phanxgames/sinew"
	"github.com/phanxgames/sinew/skelfile"
)

type app struct {
	v       *viper.Viper
	log     *logrus.Logger
	cfgFile string
}

// NewRootCmd builds the sinew command tree. Each call has its own
// configuration and logger.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:   "sinew",
		Short: "Inspect and pose skeletons",
		Long: `sinew loads YAML skeleton definitions, applies attachment overrides and
two-bone IK, and prints or renders the resulting pose.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./sinew.yaml)")
	pf.StringP("verbosity", "v", "info", "log level (debug, info, warn, error)")
	pf.Bool("no-color", false, "disable colored output")
	pf.Int("max-joints", 0, "skeleton capacity (default: from the definition, then 216)")
	_ = a.v.BindPFlag("verbosity", pf.Lookup("verbosity"))
	_ = a.v.BindPFlag("no_color", pf.Lookup("no-color"))
	_ = a.v.BindPFlag("max_joints", pf.Lookup("max-joints"))

	root.AddCommand(a.newTreeCmd())
	root.AddCommand(a.newPoseCmd())
	root.AddCommand(a.newSnapshotCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.initConfig(); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(a.v.GetString("verbosity"))
	if err != nil {
		return fmt.Errorf("verbosity: %w", err)
	}
	if a.v.GetBool("no_color") {
		color.NoColor = true
	}
	a.log.SetLevel(level)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&formatter{DisableColors: color.NoColor})
	sinew.SetLogger(slog.New(newSlogHandler(a.log)))

	if f := a.v.ConfigFileUsed(); f != "" {
		a.log.WithField("file", f).Debug("using config file")
	}
	return nil
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("sinew")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("SINEW")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (a *app) loadSkeleton(path string) (*sinew.Skeleton, error) {
	def, err := skelfile.Load(path)
	if err != nil {
		return nil, err
	}
	skel, err := skelfile.Build(def, sinew.SkeletonConfig{
		MaxJoints: a.v.GetInt("max_joints"),
		Debug:     a.log.IsLevelEnabled(logrus.DebugLevel),
	})
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"file": path, "joints": skel.NumJoints()}).Debug("skeleton loaded")
	return skel, nil
}
