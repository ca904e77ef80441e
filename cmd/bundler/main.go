package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/nostopgmaming17/luabundle/internal/bundler"
	"github.com/nostopgmaming17/luabundle/internal/config"
	"github.com/nostopgmaming17/luabundle/internal/mangle"
	"github.com/nostopgmaming17/luabundle/internal/module"
)

var (
	// Version info - set by ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

type defineFlags map[string]string

func (d defineFlags) String() string { return "" }

func (d defineFlags) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected NAME=VALUE, got %q", s)
	}
	d[name] = value
	return nil
}

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		outFlag     = flag.String("o", "", "Write bundled output to path instead of stdout")
		minifyFlag  = flag.Bool("minify", false, "Minify the bundled output")
		mangleFlag  = flag.Bool("mangle", false, "Shorten every declared identifier in the bundle")
		autoMangle  = flag.Bool("automangle", false, "Shorten every declared identifier except the entry module's own")
		configFlag  = flag.String("config", "bundler.yaml", "Path to an optional bundler.yaml config file")
		defines     = make(defineFlags)
	)
	flag.Var(defines, "d", "Define NAME=VALUE for textual substitution before parsing (repeatable, last wins)")

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	command := flag.Arg(0)

	if command == "explain" {
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: luabundle explain <entry.lua>")
			os.Exit(1)
		}
		runExplain(flag.Arg(1), defines)
		return
	}

	entryPath := command

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: reading %s: %v\n", red("Error"), *configFlag, err)
		os.Exit(1)
	}

	opts := bundler.Options{
		Minify:     *minifyFlag || cfg.Minify,
		Define:     mergedDefines(cfg.Define, defines),
		Extensions: cfg.Extensions(),
		Mangle:     resolveMangleMode(*mangleFlag, *autoMangle, cfg.Mangle),
	}

	result, err := bundler.Bundle(entryPath, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	out := *outFlag
	if out == "" {
		out = cfg.Output
	}
	if out == "" {
		fmt.Print(result.Source)
		return
	}
	if err := os.WriteFile(out, []byte(result.Source), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: writing %s: %v\n", red("Error"), out, err)
		os.Exit(1)
	}
	fmt.Printf("%s wrote %s (%d modules)\n", green("ok"), out, len(result.Graph.Modules))
}

func mergedDefines(fromConfig map[string]string, fromFlags defineFlags) module.DefineMap {
	merged := make(module.DefineMap, len(fromConfig)+len(fromFlags))
	for k, v := range fromConfig {
		merged[k] = v
	}
	for k, v := range fromFlags {
		merged[k] = v // -d NAME=VALUE always wins over bundler.yaml
	}
	return merged
}

func resolveMangleMode(mangleFlag, autoFlag bool, fromConfig string) mangle.Mode {
	switch {
	case mangleFlag:
		return mangle.All
	case autoFlag:
		return mangle.Auto
	case fromConfig == "mangle":
		return mangle.All
	case fromConfig == "auto":
		return mangle.Auto
	default:
		return mangle.None
	}
}

// runExplain bundles entryPath without writing output, then lets the user
// inspect which module a given specifier resolved to and what each module
// exports, using the same line-editing the teacher's REPL used.
func runExplain(entryPath string, defines defineFlags) {
	result, err := bundler.Bundle(entryPath, bundler.Options{Define: module.DefineMap(defines)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	fmt.Printf("%s loaded %d modules from %s\n", green("ok"), len(result.Graph.Modules), entryPath)
	fmt.Println("Commands: list | show <key> | quit")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("luabundle> ")
		if err != nil {
			break
		}
		line.AppendHistory(input)
		input = strings.TrimSpace(input)

		switch {
		case input == "quit" || input == "exit":
			return
		case input == "list":
			for _, mod := range result.Graph.Modules {
				marker := " "
				if mod.IsEntry {
					marker = "*"
				}
				fmt.Printf("%s %2d  %s\n", marker, mod.FileSeq, mod.Key)
			}
		case strings.HasPrefix(input, "show "):
			key := strings.TrimSpace(strings.TrimPrefix(input, "show "))
			mod, ok := result.Graph.Lookup(key)
			if !ok {
				fmt.Fprintf(os.Stderr, "%s: no module %q\n", yellow("warn"), key)
				continue
			}
			fmt.Printf("module %s (seq %d, entry=%v)\n", mod.Key, mod.FileSeq, mod.IsEntry)
			for _, imp := range mod.Imports {
				fmt.Printf("  import from %q -> %s\n", imp.SourceSpecifier, imp.ResolvedKey)
			}
			for _, exp := range mod.Exports {
				fmt.Printf("  export %s\n", strings.Join(exp.Names, ", "))
			}
		default:
			fmt.Println("unknown command")
		}
	}
}

func printVersion() {
	fmt.Printf("%s %s (commit %s, built %s)\n", bold("luabundle"), Version, Commit, BuildTime)
}

func printHelp() {
	fmt.Println(bold("luabundle") + " - flatten import/export modules into a single base-language file")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  luabundle [flags] <entry.lua>")
	fmt.Println("  luabundle explain <entry.lua>")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
