// Package conf is a helper for sleepsweep configuration for both the
// command line interface and environment variables.
// It gives the ability to register arguments which will be fetched from
// CLI input OR an environment variable.
// By default it registers the following option:
// <SLEEPSWEEP_LOG> --log <Log level: debug, info, warn, error, fatal, panic> Default: error
//
// When `ParseEnv` is executed, only the environment arguments are parsed
// and ready to be used in flag values.
//
// When `ParseFlags` is executed, the arguments from both CLI and Env are
// parsed. In case of --help option it prints help covering every flag
// registered so far.
package conf
