package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/palemoky/cards-against-humanity/internal/logger"
	"github.com/palemoky/cards-against-humanity/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1780", "服务器地址")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	serverURL := fmt.Sprintf("http://%s", *serverAddr)

	if err := ui.Run(serverURL); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
