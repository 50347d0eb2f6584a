package main

// @title Log server admin API
// @version 1.0
// @description Read-only admin endpoints of the TCP log server.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:9089
// @BasePath /
// @schemes http
import (
	_ "golang-logserver/docs"
	protocol "golang-logserver/protocal"

	"github.com/sirupsen/logrus"
)

func main() {
	err := protocol.ServeTCP()
	if err != nil {
		logrus.Println(err)
	}
}
