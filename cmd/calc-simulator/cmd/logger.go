// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"io"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a logger with two cores: colored lines at
// DisplayLevel on [console] and rotated files at LogLevel under
// config.Directory. Stdout is left to step responses.
func newLogger(config logging.Config, console io.Writer) logging.Logger {
	if config.DisableWriterDisplaying {
		console = io.Discard
	}
	consoleCore := logging.NewWrappedCore(config.DisplayLevel, nopCloser{console}, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = config.DisableWriterDisplaying

	files := &lumberjack.Logger{
		Filename:   path.Join(config.Directory, config.LoggerName+".log"),
		MaxSize:    config.MaxSize,  // megabytes
		MaxAge:     config.MaxAge,   // days
		MaxBackups: config.MaxFiles, // files
		Compress:   config.Compress,
	}
	fileCore := logging.NewWrappedCore(config.LogLevel, files, config.LogFormat.FileEncoder())

	return logging.NewLogger(config.LogFormat.WrapPrefix(config.MsgPrefix), consoleCore, fileCore)
}

// nopCloser keeps the logger from closing a writer it does not own.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
