package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"gallus-compiler/internal/pkg/config"
	"gallus-compiler/internal/pkg/logger"
	"gallus-compiler/internal/pkg/processors"
)

const replSourceName = "repl"

func runRepl(cfg config.Config) {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if homeDir, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(homeDir, ".gallus_history")
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	fmt.Printf("gallus %s interactive session, type `:quit` to exit\n", processors.Version)
	for {
		input, err := line.Prompt("gallus> ")
		if err != nil {
			if err != io.EOF && err != liner.ErrPromptAborted {
				logger.Error("failed to read input", "error", err)
			}
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			break
		}
		line.AppendHistory(input)

		declarations, diagnostics := processors.TranslateSource(replSourceName, input)
		if len(declarations) > 0 {
			fmt.Println(processors.Print(declarations, cfg.Width, cfg.Indent))
		}
		for _, d := range diagnostics {
			fmt.Println(d.Error())
		}
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		} else {
			logger.Warn("failed to save history", "path", historyPath, "error", err)
		}
	}
}
