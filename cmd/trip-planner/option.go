package main

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config   string `short:"f" long:"config" description:"config YAML path" env:"TRIP_CONFIG"`
	LogLevel string `long:"log-level" description:"debug|info|warn|error (overrides config)"`

	Serve         *ServeCmd         `command:"serve" description:"Start the web UI and JSON API"`
	Plan          *PlanCmd          `command:"plan" description:"Plan a trip from the command line"`
	EncryptSecret *EncryptSecretCmd `command:"encrypt-secret" description:"Encrypt a credential for the config file"`
}

func newOptions() *Options {
	o := &Options{}
	o.Serve = &ServeCmd{root: o}
	o.Plan = &PlanCmd{root: o}
	o.EncryptSecret = &EncryptSecretCmd{}
	return o
}
