package main

import (
	"flag"
	"io"
	"os"

	"bombarena/internal/client"
	"bombarena/internal/config"
	"bombarena/internal/logging"
	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（可选）")
	arrows := flag.Bool("arrows", false, "使用方向键+回车")
	record := flag.String("record", "", "把爆炸与玩家快照写入文件（可选）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info", "console", os.Stderr).Fatal().Err(err).Msg("加载配置失败")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	rules, err := cfg.Rules()
	if err != nil {
		log.Fatal().Err(err).Msg("规则无效")
	}

	scene := client.NewScene(rules.TileSize)
	sim, err := core.NewSimulation(rules, core.ParseLayout(core.DefaultLayout, rules.TileSize), cfg.Rand(), scene, log)
	if err != nil {
		log.Fatal().Err(err).Msg("创建对局失败")
	}
	player, err := sim.AddPlayer(1)
	if err != nil {
		log.Fatal().Err(err).Msg("加入对局失败")
	}

	var out io.Writer
	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			log.Fatal().Err(err).Str("path", *record).Msg("创建记录文件失败")
		}
		defer f.Close()
		out = f
	}
	recorder := client.NewRecorder(sim, out, log)

	scheme := client.ControlWASD
	if *arrows {
		scheme = client.ControlArrow
	}
	game := client.NewGame(sim, scene, player.ID, scheme)

	// 设置窗口选项
	w, h := game.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Bomb Arena - 炸弹人 [" + player.Character.String() + "] [" + scheme.String() + "]")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(client.FPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("游戏退出")
	}
	log.Info().Int("frames", recorder.Frames()).AnErr("record", recorder.Err()).Msg("对局结束")
}
