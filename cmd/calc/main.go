// Command calc is an interactive scientific calculator.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"nickandperla.net/scicalc/internal/config"
	"nickandperla.net/scicalc/internal/store"
	"nickandperla.net/scicalc/pkg/calc"
)

// options builds engine options from settings. Errors the engine cannot
// return are written to stderr.
func options(cfg config.Config) ([]calc.Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	delay, err := cfg.Delay()
	if err != nil {
		return nil, err
	}
	opts := []calc.Option{
		calc.WithAngleMode(cfg.Angle()),
		calc.WithNotation(cfg.DisplayNotation()),
		calc.WithHistoryCapacity(cfg.HistoryCapacity),
		calc.WithResetDelay(delay),
		calc.WithErrorHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}),
	}
	if strings.EqualFold(cfg.HistoryBackend, config.BackendSQLite) {
		// History lives for one session only.
		opts = append(opts, calc.WithSQLiteHistory(store.MemoryDSN))
	}
	return opts, nil
}

func main() {
	var (
		script     = flag.String("e", "", "Run a whitespace-separated command script and print the result")
		configPath = flag.String("config", "", "YAML settings file")
		angleF     = flag.String("angle", "", "Angle mode: deg or rad")
		sci        = flag.Bool("sci", false, "Show results in scientific notation")
		historyF   = flag.String("history", "", "History backend: memory or sqlite")
		printCfg   = flag.Bool("print-config", false, "Print the effective settings as YAML and exit")
	)

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override the file
	if *angleF != "" {
		cfg.AngleMode = *angleF
	}
	if *sci {
		cfg.Notation = calc.Scientific.String()
	}
	if *historyF != "" {
		cfg.HistoryBackend = *historyF
	}

	opts, err := options(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *printCfg {
		out, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	sc := &screen{w: os.Stdout}
	opts = append(opts, calc.WithResetHandler(sc.draw))
	engine := calc.New(opts...)
	defer engine.Close()
	sc.engine = engine

	if *script != "" {
		results, err := run(engine, *script)
		for _, r := range results {
			if r.message != "" {
				fmt.Println(r.message)
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			engine.Close()
			os.Exit(1)
		}
		fmt.Println(engine.Display().Primary)
		return
	}

	runREPL(sc)
}
