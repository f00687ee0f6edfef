// File: cmd/service/main.go
// @title        E-Library API
// @version      1.0
// @description  電子圖書館借閱系統的後端 API 文件
// @host         localhost:3000
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"log"
	"os"

	_ "e-library/docs" // 引入 swag 產出的 docs
)

var exitFunc = os.Exit

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
