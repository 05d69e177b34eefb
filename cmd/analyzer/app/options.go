package app

import (
	"github.com/spf13/pflag"

	"github.com/sumandas0/k8s-resource-analyzer/internal/config"
)

// Options holds the command line flags. Defaults come from the environment
// configuration so that a flag always wins over its variable.
type Options struct {
	Kubeconfig         string
	Context            string
	Output             string
	CompoundPrefixes   []string
	ExcludedContainers []string
	LogLevel           string
	LogFormat          string
	Port               int
}

func NewOptions(cfg *config.Config) *Options {
	return &Options{
		Kubeconfig:         cfg.Kubeconfig,
		Context:            cfg.Context,
		Output:             cfg.OutputFormat,
		CompoundPrefixes:   cfg.CompoundPrefixes,
		ExcludedContainers: cfg.ExcludedContainers,
		LogLevel:           cfg.LogLevel,
		LogFormat:          cfg.LogFormat,
		Port:               cfg.Port,
	}
}

// AddFlags registers the flags shared by every subcommand
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Kubeconfig, "kubeconfig", o.Kubeconfig, "Path to a kubeconfig. Defaults to $KUBECONFIG, then ~/.kube/config, then in-cluster.")
	fs.StringVar(&o.Context, "context", o.Context, "The kubeconfig context to use.")
	fs.StringSliceVar(&o.CompoundPrefixes, "compound-prefix", o.CompoundPrefixes, "Pod name prefixes whose component name spans two tokens.")
	fs.StringSliceVar(&o.ExcludedContainers, "exclude-container", o.ExcludedContainers, "Container names or glob patterns left out of resource sums.")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug, info, warn, error. Logs go to stderr.")
	fs.StringVar(&o.LogFormat, "log-format", o.LogFormat, "Log format: text, json.")
}

// AddOutputFlags registers the report format flag
func (o *Options) AddOutputFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format: table, json, yaml.")
}

// AddServeFlags registers the HTTP server flags
func (o *Options) AddServeFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Port, "port", o.Port, "Port to serve reports on.")
}

// ApplyTo copies the flag values onto cfg and validates the result
func (o *Options) ApplyTo(cfg *config.Config, namespace string) error {
	cfg.Kubeconfig = o.Kubeconfig
	cfg.Context = o.Context
	cfg.OutputFormat = o.Output
	cfg.CompoundPrefixes = o.CompoundPrefixes
	cfg.ExcludedContainers = o.ExcludedContainers
	cfg.LogLevel = o.LogLevel
	cfg.LogFormat = o.LogFormat
	cfg.Port = o.Port
	if namespace != "" {
		cfg.Namespace = namespace
	}
	return cfg.Validate()
}
