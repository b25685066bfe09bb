// Package logger 全局zerolog日志
//
// 用法：
//
//	log := logger.Get()
//	log.Info().Str("addr", addr).Msg("server started")
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once sync.Once
	log  zerolog.Logger
)

// Options 日志配置
type Options struct {
	Level  string // debug | info | warn | error
	Format string // console | json
	Output io.Writer
	Caller bool
}

// Init 初始化全局日志，只有第一次调用生效
// 没有调用Init时，Get返回info级别的console日志
func Init(opts Options) *zerolog.Logger {
	once.Do(func() {
		log = build(opts)
	})
	return &log
}

// Get 获取全局日志
func Get() *zerolog.Logger {
	once.Do(func() {
		log = build(Options{Level: "info", Format: "console"})
	})
	return &log
}

// New 创建独立的日志实例（测试、CLI使用）
func New(opts Options) zerolog.Logger {
	return build(opts)
}

func build(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}
