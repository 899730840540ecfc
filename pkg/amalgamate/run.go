// File: pkg/amalgamate/run.go
package amalgamate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Run performs one amalgamation: it writes the header block, the expansion of
// the entry file and the trailer to opts.Output. The output file is closed on
// every path; after a failure its content must not be used.
func Run(opts Options, logger *zap.Logger) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	logger.Info("Starting amalgamation",
		zap.String("root", opts.Root),
		zap.String("entry", opts.Entry),
		zap.String("output", opts.Output))

	if err := checkInputs(opts.Root, opts.Entry); err != nil {
		logger.Error("Invalid input", zap.Error(err))
		return err
	}

	if err := ensureDirectory(filepath.Dir(opts.Output), logger); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outFile, err := os.Create(opts.Output)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", opts.Output), zap.Error(err))
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			logger.Error("Failed to close output file", zap.String("file", opts.Output), zap.Error(closeErr))
			if err == nil {
				err = fmt.Errorf("failed to close output file: %w", closeErr)
			}
		}
	}()

	writer := bufio.NewWriter(outFile)

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	if err := writeHeader(writer, now()); err != nil {
		return err
	}

	result, err := Expand(writer, opts, logger)
	if err != nil {
		logger.Error("Failed to expand entry file", zap.String("entry", opts.Entry), zap.Error(err))
		return fmt.Errorf("failed to expand %s: %w", opts.Entry, err)
	}

	if _, err := writer.WriteString(Trailer + "\n\n"); err != nil {
		return fmt.Errorf("failed to write trailer: %w", err)
	}
	if err := writer.Flush(); err != nil {
		logger.Error("Failed to flush output file", zap.String("file", opts.Output), zap.Error(err))
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if opts.Tree != "" {
		if err := ensureDirectory(filepath.Dir(opts.Tree), logger); err != nil {
			return fmt.Errorf("failed to create tree output directory: %w", err)
		}
		if err := writeToFile(opts.Tree, []byte(RenderTree(result.Tree)), 0644, logger); err != nil {
			return fmt.Errorf("failed to write include tree: %w", err)
		}
	}

	logger.Info("Amalgamation completed",
		zap.String("output", opts.Output),
		zap.Int("files", result.Files),
		zap.Int("lines", result.Lines),
		zap.Duration("elapsed", time.Since(startTime)))
	return nil
}

// writeHeader writes the disclaimer comment block.
func writeHeader(w io.Writer, generated time.Time) error {
	header := "/*\n" +
		" *  This file has been merged from multiple headers. Please don't edit it directly\n" +
		" *\n" +
		fmt.Sprintf(" *  Generated: %s\n", generated.Format(TimestampLayout)) +
		" */\n"
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// writeToFile writes data to a file and logs the operation.
func writeToFile(path string, data []byte, perm os.FileMode, logger *zap.Logger) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote file", zap.String("path", path))
	return nil
}
