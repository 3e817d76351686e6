package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ratcrunch/ratcrunch"
	"github.com/ratcrunch/ratcrunch/pkg/evaluator"
	"github.com/ratcrunch/ratcrunch/pkg/history"
	"github.com/ratcrunch/ratcrunch/pkg/session"
	"github.com/ratcrunch/ratcrunch/pkg/types"
	"github.com/ratcrunch/ratcrunch/pkg/vartable"
)

var (
	precision = pflag.IntP("precision", "p", 0, "decimal places shown (overrides session config)")
	configDir = pflag.String("config-dir", "", "override the session config directory")
	noHistory = pflag.BoolP("no-history", "n", false, "do not load or save calculation history")
	verbose   = pflag.BoolP("verbose", "v", false, "enable debug logging")
	version   = pflag.Bool("version", false, "print version and exit")
)

func main() {
	pflag.Parse()

	if *version {
		fmt.Printf("ratcrunch %s\n", ratcrunch.Version())
		return
	}

	log, err := buildLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ratcrunch: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(log *zap.Logger) error {
	var sess *session.Session
	var err error
	if *configDir != "" {
		sess = session.NewAt(*configDir, filepath.Join(*configDir, "data"))
	} else {
		sess, err = session.New()
		if err != nil {
			return err
		}
	}
	if err := sess.Init(); err != nil {
		return err
	}

	prec := sess.DecimalPlaces
	if *precision > 0 {
		prec = *precision
	}

	table := vartable.New()
	var resolver types.AnswerResolver = types.NopResolver{}
	var manager *history.Manager
	if !*noHistory {
		manager, err = history.NewManager(sess, log)
		if err != nil {
			return err
		}
		resolver = manager
	}

	eval := evaluator.New(evaluator.WithPrecision(prec))

	fmt.Printf("ratcrunch %s, %d decimal places\n", ratcrunch.Version(), prec)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		switch line {
		case "":
			continue
		case "exit", "quit":
			return scanner.Err()
		}

		expr, err := ratcrunch.Parse(line, table, resolver)
		if err != nil {
			fmt.Println(err)
			continue
		}
		result, err := eval.GetEquality(expr.AST(), table, resolver)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(result.Render(prec))

		if manager != nil {
			manager.AddEntry(history.NewEntry(result, prec))
			if err := manager.Flush(); err != nil {
				log.Warn("could not save history", zap.Error(err))
			}
		}
	}
	return scanner.Err()
}
