package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"gallus-compiler/internal/pkg/common"
	"gallus-compiler/internal/pkg/config"
	"gallus-compiler/internal/pkg/logger"
	"gallus-compiler/internal/pkg/processors"
)

func main() {
	defaults := config.Default()

	out := flag.String("out", defaults.Out, "output directory for the generated files (`-` writes to stdout)")
	width := flag.Int("width", defaults.Width, "maximum line width of the generated code")
	indent := flag.Int("indent", defaults.Indent, "indent size of the generated code")
	configPath := flag.String("config", "gallus.yaml", "project file path")
	cacheDir := flag.String("cache", defaults.CacheDir, "package cache directory")
	upgrade := flag.Bool("upgrade", false, "upgrade packages")
	jsonDiagnostics := flag.Bool("json", false, "print diagnostics as a JSON array")
	repl := flag.Bool("repl", false, "start an interactive session")
	verbose := flag.Bool("verbose", false, "log at debug level")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gallus compiler version: %s\n", processors.Version)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger.Init(logger.Config{Level: level})

	log := &common.LogWriter{}

	cfg, err := config.Load(*configPath)
	configSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configSet = true
		}
	})
	if err != nil && (configSet || !os.IsNotExist(err)) {
		log.Err(common.NewSystemError(err))
		log.Flush(os.Stdout)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Out = *out
		case "width":
			cfg.Width = *width
		case "indent":
			cfg.Indent = *indent
		case "cache":
			cfg.CacheDir = *cacheDir
		}
	})
	if *jsonDiagnostics {
		cfg.Diagnostics = "json"
	}

	if *repl {
		runRepl(cfg)
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = cfg.Packages
	}
	if len(inputs) == 0 {
		log.Err(common.NewSystemError(fmt.Errorf("no input packages, run compiler as `gallus <path-to-package>`")))
	} else {
		loadedPackages := map[processors.PackageIdentifier]*processors.LoadedPackage{}
		progress := func(value float32, message string) {
			logger.Debug(message)
		}
		for _, url := range inputs {
			if _, err := processors.LoadPackage(url, cfg.CacheDir, "", progress, *upgrade, loadedPackages); err != nil {
				log.Err(err)
			}
		}

		var diagnostics []common.Error
		if !log.HasErrors() {
			names := common.Keys(loadedPackages)
			slices.Sort(names)
			for _, name := range names {
				pkg := loadedPackages[name]
				logger.Info("translating package", "name", string(name), "sources", len(pkg.Sources))
				for _, file := range processors.CompilePackage(pkg, cfg.Width, cfg.Indent) {
					diagnostics = append(diagnostics, file.Diagnostics...)
					if err := writeOutput(cfg.Out, pkg, file); err != nil {
						log.Err(err)
					}
				}
			}
		}

		if cfg.Diagnostics == "json" {
			printJSONDiagnostics(diagnostics, log)
		} else {
			for _, d := range diagnostics {
				log.Trace(d.Error())
			}
		}
	}

	hadErrors := log.HasErrors()
	log.Flush(os.Stdout)
	if hadErrors {
		os.Exit(1)
	}
}

func writeOutput(outDir string, pkg *processors.LoadedPackage, file processors.CompiledFile) error {
	if outDir == "-" {
		fmt.Print(file.Output)
		return nil
	}
	rel, err := filepath.Rel(pkg.Dir, file.Source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file.Source)
	}
	rel = strings.TrimPrefix(rel, "src"+string(filepath.Separator))
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".v"
	outPath := filepath.Join(outDir, string(pkg.Package.Name), rel)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return common.NewSystemError(fmt.Errorf("failed to create output directory: %w", err))
	}
	if err := os.WriteFile(outPath, []byte(file.Output), 0644); err != nil {
		return common.NewSystemError(fmt.Errorf("failed to write `%s`: %w", outPath, err))
	}
	return nil
}

type jsonDiagnostic struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"col"`
	Message string `json:"message"`
}

func printJSONDiagnostics(diagnostics []common.Error, log *common.LogWriter) {
	list := make([]jsonDiagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		line, column, _, _ := d.Location.GetLineAndColumn()
		list = append(list, jsonDiagnostic{
			Path:    d.Location.FilePath,
			Line:    line,
			Column:  column,
			Message: d.Message,
		})
	}
	data, err := json.Marshal(list)
	if err != nil {
		log.Err(common.NewSystemError(err))
		return
	}
	log.Trace(string(data))
}
