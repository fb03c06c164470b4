package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pusula/internal/config"
	"pusula/internal/server"
	"pusula/internal/util"
)

var (
	port    = flag.Int("port", 0, "服务端口（config.toml 未显式配置 port 时生效）")
	devMode = flag.Bool("dev", false, "开发模式，不自动打开浏览器")
	dataDir = flag.String("dataDir", "", "数据目录，覆盖 [data] data_dir")
)

func main() {
	flag.Parse()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("配置文件 %s 无法读取，使用默认配置: %v", info.Path, err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}
	applyFlags(cfg, info)

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("服务初始化失败: %v", err)
	}

	base := fmt.Sprintf("http://localhost:%d/api", cfg.Server.Port)
	printBanner(cfg, srv.SessionSummary(), base)

	go func() {
		if err := srv.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		if err := util.OpenBrowser(base + "/status"); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问 %s/status\n", base)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("关闭服务失败: %v", err)
	}
}

// applyFlags 命令行参数覆盖配置文件
func applyFlags(cfg *config.AppConfig, info config.LoadConfigInfo) {
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
}

func printBanner(cfg *config.AppConfig, restored []string, base string) {
	fmt.Println(util.BoldCyan("Pusula · Proje Kontrol Merkezi"))
	fmt.Printf("  Veri dizini   %s\n", cfg.DataDir())
	fmt.Printf("  Bolluk eşiği  %s\n", util.FormatDays(cfg.Analysis.SlackThreshold))
	if len(restored) == 0 {
		fmt.Println(util.Dim("  Yüklü plan yok; POST " + base + "/schedules/current ile yükleyin"))
	}
	for _, line := range restored {
		fmt.Printf("  %s %s\n", util.Green("↺"), line)
	}
	fmt.Printf("  API           %s\n", base)
	if cfg.Server.DevMode {
		fmt.Println(util.Yellow("  Geliştirme modu"))
	}
	fmt.Println("Durdurmak için Ctrl+C")
}
