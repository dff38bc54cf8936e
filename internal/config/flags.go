package config

import (
	"github.com/spf13/pflag"
)

// Override sets a configuration value ahead of the environment.
type Override func(values map[string]string)

// WithValue overrides the environment variable name with value.
func WithValue(name, value string) Override {
	return func(values map[string]string) {
		values[name] = value
	}
}

// ParseFlags parses command-line arguments into overrides. Flags that are not
// set leave the environment untouched.
func ParseFlags(name string, args []string) ([]Override, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagVars := map[string]*string{
		portEnvVar:    fs.String("port", "", "port to listen on (env "+portEnvVar+")"),
		baseURLVar:    fs.String("base-url", "", "public base URL of the server (env "+baseURLVar+")"),
		envVar:        fs.String("env", "", "deployment environment, DEV enables console logging (env "+envVar+")"),
		logLevelVar:   fs.String("log-level", "", "zerolog level (env "+logLevelVar+")"),
		stateStoreVar: fs.String("store", "", "OAuth state store: memory or redis (env "+stateStoreVar+")"),
		redisAddrVar:  fs.String("redis-addr", "", "redis address for the redis store (env "+redisAddrVar+")"),
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var overrides []Override
	for name, v := range flagVars {
		if *v != "" {
			overrides = append(overrides, WithValue(name, *v))
		}
	}
	return overrides, nil
}
