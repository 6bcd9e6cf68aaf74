package config

import (
	"flag"
	"os"
	"strings"
)

// filterArgs keeps only the flags listed in allowed (plus their values) so
// that each config layer can parse os.Args without tripping over flags owned
// by another layer. Both "-f value" and "-f=value" forms are recognised; a
// following argument is taken as the value unless it looks like a flag.
func filterArgs(args []string, allowed []string) []string {
	known := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		known[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if known[name] {
				out = append(out, arg)
			}
			continue
		}
		if !known[arg] {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// configFilePath returns the value of -c / -config, or "" when absent.
func configFilePath() string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(filterArgs(os.Args[1:], []string{"-c", "-config", "--config"}))

	return path
}
