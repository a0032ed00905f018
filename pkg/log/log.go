// Copyright 2026 The rinaproto Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the logging facility. It wraps zap and exposes a key/value
// context style API:
//
//	log.Info("Registered application", "name", name, "address", addr)
//
// The root logger is configured with Setup. Before Setup is called, the root
// logger discards everything.
package log

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rinaproto/rina/pkg/private/serrors"
)

// Level of a log entry.
type Level zapcore.Level

const (
	DebugLevel Level = Level(zapcore.DebugLevel)
	InfoLevel  Level = Level(zapcore.InfoLevel)
	ErrorLevel Level = Level(zapcore.ErrorLevel)
)

// ParseLevel parses a level string as used in the configuration.
func ParseLevel(lvl string) (Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(lvl))); err != nil {
		return 0, serrors.Wrap("parsing log level", err, "level", lvl)
	}
	switch l {
	case zapcore.DebugLevel, zapcore.InfoLevel, zapcore.ErrorLevel:
		return Level(l), nil
	default:
		return 0, serrors.New("unsupported log level", "level", lvl)
	}
}

func (l Level) String() string {
	return zapcore.Level(l).String()
}

// Logger describes the logger interface.
type Logger interface {
	New(ctx ...any) Logger
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(lvl Level) bool
}

var (
	mtx       sync.RWMutex
	zapLogger = zap.NewNop()
	atomicLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Setup configures the root logger according to cfg.
func Setup(cfg Config, opts ...Option) error {
	cfg.InitDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := ParseLevel(cfg.Console.Level)
	atomicLvl.SetLevel(zapcore.Level(lvl))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoding := "json"
	if cfg.Console.Format == "human" {
		encoding = "console"
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zCfg := zap.Config{
		Level:             atomicLvl,
		Encoding:          encoding,
		EncoderConfig:     encCfg,
		DisableCaller:     cfg.Console.DisableCaller,
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	o := applyOptions(opts)
	l, err := zCfg.Build(append(o.zapOptions(), zap.AddCallerSkip(1))...)
	if err != nil {
		return serrors.Wrap("building logger", err)
	}
	mtx.Lock()
	defer mtx.Unlock()
	zapLogger = l
	return nil
}

// SetLevel changes the level of the root logger at runtime.
func SetLevel(lvl Level) {
	atomicLvl.SetLevel(zapcore.Level(lvl))
}

// CurrentLevel returns the level of the root logger.
func CurrentLevel() Level {
	return Level(atomicLvl.Level())
}

// HandlePanic catches panics and logs them.
func HandlePanic() {
	if msg := recover(); msg != nil {
		root().Error("Panic", zap.Any("msg", msg), zap.ByteString("stack", debug.Stack()))
		root().Error("=====================> Service panicked!")
		Flush()
		fmt.Fprintf(os.Stderr, "panic: %v\n%s", msg, debug.Stack())
		os.Exit(255)
	}
}

// Flush writes the logs to the underlying buffer.
func Flush() {
	_ = root().Sync()
}

func root() *zap.Logger {
	mtx.RLock()
	defer mtx.RUnlock()
	return zapLogger
}

// Debug logs at debug level.
func Debug(msg string, ctx ...any) {
	root().Debug(msg, convertCtx(ctx)...)
}

// Info logs at info level.
func Info(msg string, ctx ...any) {
	root().Info(msg, convertCtx(ctx)...)
}

// Error logs at error level.
func Error(msg string, ctx ...any) {
	root().Error(msg, convertCtx(ctx)...)
}

// New creates a logger with the given context.
func New(ctx ...any) Logger {
	return &logger{logger: root().With(convertCtx(ctx)...)}
}

// Root returns the root logger. It's a logger without any context.
func Root() Logger {
	return &logger{logger: root()}
}

// Discard sets the logger up to discard all log entries. This is useful for
// testing.
func Discard() {
	mtx.Lock()
	defer mtx.Unlock()
	zapLogger = zap.NewNop()
}

type logger struct {
	logger *zap.Logger
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(zapcore.Level(lvl))
}

// convertCtx turns key/value pairs into zap fields. A trailing key without a
// value is dropped.
func convertCtx(ctx []any) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(ctx[i]), ctx[i+1]))
	}
	return fields
}

// SafeDebug logs to l only if l is not nil.
func SafeDebug(l Logger, msg string, ctx ...any) {
	if l != nil {
		l.Debug(msg, ctx...)
	}
}

// SafeInfo logs to l only if l is not nil.
func SafeInfo(l Logger, msg string, ctx ...any) {
	if l != nil {
		l.Info(msg, ctx...)
	}
}

// SafeError logs to l only if l is not nil.
func SafeError(l Logger, msg string, ctx ...any) {
	if l != nil {
		l.Error(msg, ctx...)
	}
}
