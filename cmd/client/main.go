package main

import (
	"context"
	"flag"
	"net"
	"os"
	"time"

	"golang-logserver/pkg/client"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

func main() {
	host := flag.String("host", client.DefaultHost, "server host")
	port := flag.String("port", client.DefaultPort, "server port")
	message := flag.String("message", client.DefaultMessage, "message to send")
	timeout := flag.Duration("timeout", 10*time.Second, "timeout for the whole exchange")
	flag.Parse()

	logrus.SetOutput(os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	addr := net.JoinHostPort(*host, *port)
	reply, err := client.Exchange(ctx, addr, *message)
	if err != nil {
		logrus.Errorf("Error in I/O: %v", err)
		return
	}

	label := color.New(color.Bold)
	label.Print("Message from server: ")
	color.Green("%s", reply.Greeting)
	label.Print("Message sent to server: ")
	color.Cyan("%s", *message)
	color.Yellow("%s", reply.Content)
}
