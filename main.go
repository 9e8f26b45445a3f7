package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/recorder"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/task"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/config"
)

var (
	// 本程序监听的RPC地址，非空时覆盖配置文件中的rpc.listen
	listenAddr = flag.String("listen", "", "RPC listening address (overrides rpc.listen), e.g. :51102")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

// loadConfig 从文件或Base64数据读取配置，都未指定时使用默认配置
func loadConfig() config.Config {
	var file []byte
	var err error
	switch {
	case *configPath != "":
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	case *configData != "":
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	default:
		log.Info("no config specified, use defaults")
		return config.Default()
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

// shutdownServer 在timeout内优雅关闭RPC服务，失败时仅告警
func shutdownServer(server interface{ Shutdown(context.Context) error }, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("RPC server shutdown err: %v", err)
	}
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	c := loadConfig()
	if *listenAddr != "" {
		c.RPC.Listen = *listenAddr
	}
	log.Infof("%+v", c)
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		log.Panicf("%v", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	writer, err := recorder.Open(runCtx, c.Output)
	if err != nil {
		log.Panicf("metrics output init err: %v", err)
	}
	t := task.NewContext(rc, writer)

	if c.RPC.Listen != "" {
		mux := http.NewServeMux()
		t.Register(mux)
		server := &http.Server{Addr: c.RPC.Listen, Handler: mux}
		go func() {
			log.Infof("serve RPC at %s", c.RPC.Listen)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Panicf("failed to serve: %v", err)
			}
		}()
		defer shutdownServer(server, 5*time.Second)
	}

	t.Run(runCtx)
}
