package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bombarena/internal/config"
	"bombarena/internal/database"
	"bombarena/internal/logging"
	"bombarena/internal/server"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "", "配置文件路径（可选）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info", "console", os.Stderr).Fatal().Err(err).Msg("加载配置失败")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	db, err := database.Open(cfg.DB, log.With().Str("component", "database").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("连接数据库失败")
	}
	defer db.Close()
	if err := db.Setup(); err != nil {
		log.Fatal().Err(err).Msg("初始化数据库失败")
	}

	srv := server.New(cfg, db, log.With().Str("component", "server").Logger())
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("服务器启动失败")
	}
	log.Info().
		Int("port", cfg.HTTP.Port).
		Str("proto", cfg.Transport.Proto).
		Str("addr", cfg.Transport.Addr).
		Msg("服务器正在运行，按 Ctrl+C 停止")

	// 等待中断信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("关闭服务器失败")
	}
}
