package flags

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.senan.xyz/flagconf"
	"go.senan.xyz/tagbridge"
	"go.senan.xyz/tagbridge/metadata"
)

func EnvPrefix(prefix string) {
	flagconf.ReadEnvPrefix = func(_ *flag.FlagSet) string {
		return prefix
	}
}

func Parse() {
	userConfig, _ := os.UserConfigDir()
	defaultConfigPath := filepath.Join(userConfig, tagbridge.Name, "config")
	configPath := flag.String("config-path", defaultConfigPath, "path config file")

	printVersion := flag.Bool("version", false, "print the version")
	printConfig := flag.Bool("config", false, "print the parsed config")

	flag.TextVar(&logLevel, "log-level", &logLevel, "set the logging level")

	flag.Parse()
	flagconf.ParseEnv()
	flagconf.ParseConfig(*configPath)

	if *printVersion {
		fmt.Printf("%s %s\n", flag.CommandLine.Name(), tagbridge.Version)
		os.Exit(0)
	}
	if *printConfig {
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("%-16s %s\n", f.Name, f.Value)
		})
		os.Exit(0)
	}
}

func Jobs() *int {
	return flag.Int("jobs", runtime.NumCPU(), "number of files to read at once")
}

// Source registers the -tag-reader flag, which picks the backend used to read
// tags and audio properties.
func Source() *metadata.Source {
	r := tagbridge.DefaultSource
	flag.Var(&sourceParser{src: &r}, "tag-reader", fmt.Sprintf("tag reader to use for metadata (one of %s)", sourceNames()))
	return &r
}
