// Package flagx lets several configuration layers share os.Args: each layer
// keeps only the flags it declares and parses them with its own FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belong to allowedFlags, keeping
// the value that follows a flag when it is given as a separate argument.
// Both "-f value" and "-f=value" forms are recognised.
func FilterArgs(args []string, allowedFlags []string) []string {
	return FilterArgsWithBools(args, allowedFlags, nil)
}

// FilterArgsWithBools behaves like FilterArgs, but flags listed in boolFlags
// never consume the next argument, so "-l positional" keeps "positional" out
// of the result. A bool flag is still allowed to carry "-l=false".
func FilterArgsWithBools(args []string, allowedFlags []string, boolFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags)+len(boolFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}
	bools := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		allowed[f] = struct{}{}
		bools[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if _, isBool := bools[arg]; isBool {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags returns the path given with -c or -config, or "" when
// neither is present. Other arguments are ignored.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
